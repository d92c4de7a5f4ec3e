package news

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// Service is the row-level CRUD over news items. The schema is provisioned
// lazily on first touch, so a fresh database reads as an empty list instead
// of a server error; goose migrations remain the source of truth for
// production schemas and AutoMigrate is a no-op once they have run.
type Service struct {
	conn *gorm.DB
	logg *logger.Logger

	mu          sync.Mutex
	provisioned bool
	migrate     func(context.Context) error
}

func NewService(conn *gorm.DB, logg *logger.Logger) (*Service, error) {
	if conn == nil {
		return nil, fmt.Errorf("news service: db connection is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("news service: logger is required")
	}
	s := &Service{conn: conn, logg: logg}
	s.migrate = func(ctx context.Context) error {
		return s.conn.WithContext(ctx).AutoMigrate(&Item{})
	}
	return s, nil
}

// ensureSchema provisions the table on first touch. Only success is cached;
// a failed attempt is retried on the next call, so a database outage at
// first touch does not wedge the service until restart.
func (s *Service) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provisioned {
		return nil
	}
	if err := s.migrate(ctx); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "provisioning news schema")
	}
	s.provisioned = true
	return nil
}

// List returns items pinned first (sort_order asc), newest first within the
// same pin level.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var items []Item
	err := s.conn.WithContext(ctx).
		Order("sort_order asc").
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing news items")
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Item, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return Item{}, err
	}

	var item Item
	err := s.conn.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, errors.New(errors.CodeNotFound, fmt.Sprintf("news item %d not found", id))
		}
		return Item{}, errors.Wrap(errors.CodeDependency, err, "fetching news item")
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, candidate Item) (Item, error) {
	if err := validate(candidate); err != nil {
		return Item{}, err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return Item{}, err
	}

	candidate.ID = 0
	if err := s.conn.WithContext(ctx).Create(&candidate).Error; err != nil {
		return Item{}, errors.Wrap(errors.CodeDependency, err, "creating news item")
	}

	s.logg.Info(s.logg.WithEntryID(ctx, candidate.ID), "news item created")
	return candidate, nil
}

func (s *Service) Update(ctx context.Context, id int64, candidate Item) (Item, error) {
	if err := validate(candidate); err != nil {
		return Item{}, err
	}

	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return Item{}, err
	}

	existing.Date = candidate.Date
	existing.Title = candidate.Title
	existing.Description = candidate.Description
	existing.SortOrder = candidate.SortOrder

	if err := s.conn.WithContext(ctx).Save(&existing).Error; err != nil {
		return Item{}, errors.Wrap(errors.CodeDependency, err, "updating news item")
	}

	s.logg.Info(s.logg.WithEntryID(ctx, id), "news item updated")
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.conn.WithContext(ctx).Delete(&Item{}, "id = ?", id).Error; err != nil {
		return errors.Wrap(errors.CodeDependency, err, "deleting news item")
	}

	s.logg.Info(s.logg.WithEntryID(ctx, id), "news item deleted")
	return nil
}

func validate(item Item) error {
	var problems []string
	if strings.TrimSpace(item.Title) == "" {
		problems = append(problems, "title is required")
	}
	if len(problems) > 0 {
		return errors.New(errors.CodeValidation, "invalid news item").
			WithDetails(strings.Join(problems, "; "))
	}
	return nil
}

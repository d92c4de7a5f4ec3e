// Package blog manages the journal articles shown on the news page. Articles
// live on the document store like the catalog collections and follow the same
// read-modify-write mutation pattern.
package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// Article is one journal post. Image is an uploaded blob URL, cleaned up
// when the article is deleted.
type Article struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Image   string `json:"image"`
}

type Store interface {
	Load(ctx context.Context) ([]Article, error)
	Save(ctx context.Context, articles []Article) error
}

type AssetStore interface {
	Delete(ctx context.Context, assetURL string) error
}

type Service struct {
	store  Store
	assets AssetStore
	logg   *logger.Logger
	now    func() time.Time
}

func NewService(store Store, assets AssetStore, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("blog service: store is required")
	}
	if assets == nil {
		return nil, fmt.Errorf("blog service: asset store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("blog service: logger is required")
	}
	return &Service{store: store, assets: assets, logg: logg, now: time.Now}, nil
}

func (s *Service) List(ctx context.Context) ([]Article, error) {
	articles, err := s.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading blog collection")
	}
	return articles, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Article, error) {
	articles, err := s.List(ctx)
	if err != nil {
		return Article{}, err
	}
	for _, article := range articles {
		if article.ID == id {
			return article, nil
		}
	}
	return Article{}, errors.New(errors.CodeNotFound, fmt.Sprintf("article %d not found", id))
}

func (s *Service) Create(ctx context.Context, candidate Article) (Article, error) {
	if err := validate(candidate); err != nil {
		return Article{}, err
	}

	articles, err := s.List(ctx)
	if err != nil {
		return Article{}, err
	}

	candidate.ID = allocateID(s.now(), articles)
	if err := s.save(ctx, append(articles, candidate)); err != nil {
		return Article{}, err
	}

	s.logg.Info(s.logg.WithEntryID(ctx, candidate.ID), "blog article created")
	return candidate, nil
}

func (s *Service) Update(ctx context.Context, id int64, candidate Article) (Article, error) {
	candidate.ID = id
	if err := validate(candidate); err != nil {
		return Article{}, err
	}

	articles, err := s.List(ctx)
	if err != nil {
		return Article{}, err
	}

	replaced := false
	for i := range articles {
		if articles[i].ID == id {
			articles[i] = candidate
			replaced = true
			break
		}
	}
	if !replaced {
		return Article{}, errors.New(errors.CodeNotFound, fmt.Sprintf("article %d not found", id))
	}

	if err := s.save(ctx, articles); err != nil {
		return Article{}, err
	}

	s.logg.Info(s.logg.WithEntryID(ctx, id), "blog article updated")
	return candidate, nil
}

// Delete removes the article and best-effort deletes its image; a failed
// blob delete is logged, not surfaced.
func (s *Service) Delete(ctx context.Context, id int64) error {
	articles, err := s.List(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i := range articles {
		if articles[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("article %d not found", id))
	}

	removed := articles[index]
	remaining := append(articles[:index:index], articles[index+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return err
	}

	ctx = s.logg.WithEntryID(ctx, id)
	s.logg.Info(ctx, "blog article deleted")

	if image := removed.Image; image != "" && !strings.HasSuffix(image, "/placeholder.png") {
		if err := s.assets.Delete(ctx, image); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "asset_url", image), "asset cleanup failed: "+err.Error())
		}
	}
	return nil
}

func (s *Service) save(ctx context.Context, articles []Article) error {
	if err := s.store.Save(ctx, articles); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving blog collection")
	}
	return nil
}

func validate(article Article) error {
	var problems []string
	if strings.TrimSpace(article.Title) == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(article.Content) == "" {
		problems = append(problems, "content is required")
	}
	if len(problems) > 0 {
		return errors.New(errors.CodeValidation, "invalid article").
			WithDetails(strings.Join(problems, "; "))
	}
	return nil
}

func allocateID(now time.Time, articles []Article) int64 {
	taken := make(map[int64]struct{}, len(articles))
	for _, article := range articles {
		taken[article.ID] = struct{}{}
	}
	id := now.UnixMilli()
	for {
		if _, exists := taken[id]; !exists {
			return id
		}
		id++
	}
}

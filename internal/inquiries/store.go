package inquiries

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// GormAuditStore is the relational AuditStore. The schema is provisioned
// lazily on first touch so a fresh database never turns an inquiry into a
// server error; goose migrations own the production schema and AutoMigrate
// is a no-op once they have run.
type GormAuditStore struct {
	conn *gorm.DB

	mu          sync.Mutex
	provisioned bool
	migrate     func(context.Context) error
}

func NewGormAuditStore(conn *gorm.DB) *GormAuditStore {
	s := &GormAuditStore{conn: conn}
	s.migrate = func(ctx context.Context) error {
		return s.conn.WithContext(ctx).AutoMigrate(&Record{})
	}
	return s
}

// ensureSchema provisions the table on first touch, caching success only so
// a failed attempt is retried on the next call.
func (s *GormAuditStore) ensureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.provisioned {
		return nil
	}
	if err := s.migrate(ctx); err != nil {
		return err
	}
	s.provisioned = true
	return nil
}

func (s *GormAuditStore) Insert(ctx context.Context, record Record) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	return s.conn.WithContext(ctx).Create(&record).Error
}

func (s *GormAuditStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var records []Record
	err := s.conn.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&records).Error
	return records, err
}

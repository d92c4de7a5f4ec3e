package blog

import (
	"context"
	"errors"
	"io"
	"testing"

	apperrors "github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

type memStore struct {
	articles []Article
	saves    int
}

func (m *memStore) Load(_ context.Context) ([]Article, error) {
	out := make([]Article, len(m.articles))
	copy(out, m.articles)
	return out, nil
}

func (m *memStore) Save(_ context.Context, articles []Article) error {
	m.saves++
	m.articles = make([]Article, len(articles))
	copy(m.articles, articles)
	return nil
}

type recordingAssets struct {
	deleted []string
	err     error
}

func (r *recordingAssets) Delete(_ context.Context, assetURL string) error {
	if r.err != nil {
		return r.err
	}
	r.deleted = append(r.deleted, assetURL)
	return nil
}

func newTestService(t *testing.T, store *memStore, assets *recordingAssets) *Service {
	t.Helper()
	svc, err := NewService(store, assets, logger.New(logger.Options{Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestArticleCRUD(t *testing.T) {
	store := &memStore{}
	assets := &recordingAssets{}
	svc := newTestService(t, store, assets)

	created, err := svc.Create(context.Background(), Article{
		Title:   "Opening night",
		Content: "The studio opened its doors.",
		Date:    "2026-03-01",
		Image:   "https://storage.googleapis.com/b/blog/opening.jpg",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	fetched, err := svc.GetByID(context.Background(), created.ID)
	if err != nil || fetched.Title != "Opening night" {
		t.Fatalf("GetByID: %v %#v", err, fetched)
	}

	created.Title = "Opening night, revisited"
	if _, err := svc.Update(context.Background(), created.ID, created); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if store.articles[0].Title != "Opening night, revisited" {
		t.Fatalf("update not persisted: %#v", store.articles)
	}

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.articles) != 0 {
		t.Fatal("article not removed")
	}
	if len(assets.deleted) != 1 || assets.deleted[0] != "https://storage.googleapis.com/b/blog/opening.jpg" {
		t.Fatalf("image not cleaned up: %v", assets.deleted)
	}
}

func TestArticleValidation(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, &recordingAssets{})

	_, err := svc.Create(context.Background(), Article{Title: "No body"})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.saves != 0 {
		t.Fatal("invalid article must not be persisted")
	}
}

func TestArticleUpdateUnknownID(t *testing.T) {
	svc := newTestService(t, &memStore{}, &recordingAssets{})
	_, err := svc.Update(context.Background(), 9, Article{Title: "t", Content: "c"})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestArticleDeleteSurvivesCleanupFailure(t *testing.T) {
	store := &memStore{articles: []Article{{
		ID: 1, Title: "t", Content: "c",
		Image: "https://storage.googleapis.com/b/blog/x.jpg",
	}}}
	svc := newTestService(t, store, &recordingAssets{err: errors.New("gcs down")})

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("cleanup failure must not surface: %v", err)
	}
	if len(store.articles) != 0 {
		t.Fatal("article should still be removed")
	}
}

func TestArticleDeleteSkipsPlaceholder(t *testing.T) {
	store := &memStore{articles: []Article{{
		ID: 1, Title: "t", Content: "c",
		Image: "https://cdn.example/placeholder.png",
	}}}
	assets := &recordingAssets{}
	svc := newTestService(t, store, assets)

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(assets.deleted) != 0 {
		t.Fatalf("placeholder must not be deleted: %v", assets.deleted)
	}
}

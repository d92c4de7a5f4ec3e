package catalog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

type memStore struct {
	entries  []Entry
	loadErr  error
	saveErr  error
	saves    int
}

func (m *memStore) Load(_ context.Context) ([]Entry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *memStore) Save(_ context.Context, entries []Entry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.entries = make([]Entry, len(entries))
	copy(m.entries, entries)
	return nil
}

type recordingAssets struct {
	deleted []string
	failOn  map[string]error
}

func (r *recordingAssets) Delete(_ context.Context, assetURL string) error {
	if err, ok := r.failOn[assetURL]; ok {
		return err
	}
	r.deleted = append(r.deleted, assetURL)
	return nil
}

func newTestService(t *testing.T, workType WorkType, store *memStore, assets *recordingAssets) *Service {
	t.Helper()
	svc, err := NewService(workType, store, assets, logger.New(logger.Options{Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateAssignsIDAndDefaults(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, WorkTypeArt, store, &recordingAssets{})

	created, err := svc.Create(context.Background(), Entry{
		Title:      "Hide No.1",
		Discipline: "sculpture",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if created.Images == nil || len(created.Images) != 0 {
		t.Fatalf("expected empty gallery, got %#v", created.Images)
	}
	if created.Icon != "" {
		t.Fatalf("expected empty icon, got %q", created.Icon)
	}
	if created.ForSale == nil || !*created.ForSale {
		t.Fatal("art entries default to forSale=true")
	}
	if created.Page != 1 {
		t.Fatalf("expected page default 1, got %d", created.Page)
	}
	if created.WorkType != WorkTypeArt {
		t.Fatalf("work type should be pinned to the collection, got %q", created.WorkType)
	}

	if len(store.entries) != 1 || store.entries[0].ID != created.ID {
		t.Fatalf("entry not persisted: %#v", store.entries)
	}
}

func TestCreateAssignedIDsAreUnique(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, WorkTypeFilm, store, &recordingAssets{})
	svc.now = func() time.Time { return time.UnixMilli(1000) } // frozen clock forces collisions

	first, err := svc.Create(context.Background(), Entry{Title: "Short A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(context.Background(), Entry{Title: "Short B"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both got %d", first.ID)
	}
}

func TestCreateRejectsInvalidEntries(t *testing.T) {
	cases := []struct {
		name     string
		workType WorkType
		entry    Entry
	}{
		{"empty title", WorkTypeArt, Entry{Title: "   ", Discipline: "painting"}},
		{"architecture without country", WorkTypeArchitecture, Entry{Title: "Villa", City: "Porto"}},
		{"product design without city", WorkTypeProductDesign, Entry{Title: "Chair", Country: "PT"}},
		{"art without discipline", WorkTypeArt, Entry{Title: "Hide"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &memStore{}
			svc := newTestService(t, tc.workType, store, &recordingAssets{})
			_, err := svc.Create(context.Background(), tc.entry)
			typed := apperrors.As(err)
			if typed == nil || typed.Code() != apperrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
			if store.saves != 0 {
				t.Fatal("invalid entries must not be persisted")
			}
		})
	}
}

func TestCreateKeepsCallerIDUnlessTaken(t *testing.T) {
	store := &memStore{entries: []Entry{{ID: 7, WorkType: WorkTypeFilm, Title: "Taken"}}}
	svc := newTestService(t, WorkTypeFilm, store, &recordingAssets{})

	created, err := svc.Create(context.Background(), Entry{ID: 42, Title: "Kept"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 42 {
		t.Fatalf("caller id should be kept, got %d", created.ID)
	}

	_, err = svc.Create(context.Background(), Entry{ID: 7, Title: "Clash"})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error on id clash, got %v", err)
	}
}

func TestUpdateUnknownIDIsNotFound(t *testing.T) {
	store := &memStore{entries: []Entry{{ID: 1, WorkType: WorkTypeFilm, Title: "Existing"}}}
	svc := newTestService(t, WorkTypeFilm, store, &recordingAssets{})

	_, err := svc.Update(context.Background(), 99, Entry{Title: "Ghost"})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.saves != 0 {
		t.Fatal("a rejected update must not write")
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	store := &memStore{entries: []Entry{
		{ID: 1, WorkType: WorkTypeFilm, Title: "First"},
		{ID: 2, WorkType: WorkTypeFilm, Title: "Second"},
	}}
	svc := newTestService(t, WorkTypeFilm, store, &recordingAssets{})

	updated, err := svc.Update(context.Background(), 2, Entry{Title: "Second, recut", Year: "2024"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != 2 || updated.Year != "2024" {
		t.Fatalf("unexpected updated entry %#v", updated)
	}
	if store.entries[0].Title != "First" {
		t.Fatal("unrelated entries must be untouched")
	}
	if store.entries[1].Title != "Second, recut" {
		t.Fatalf("entry not replaced: %#v", store.entries[1])
	}
}

func TestDeleteCascadesAssetCleanup(t *testing.T) {
	store := &memStore{entries: []Entry{{
		ID:       5,
		WorkType: WorkTypeArt,
		Title:    "Hide No.1",
		Images: []string{
			"https://storage.googleapis.com/b/art/1.jpg",
			"https://storage.googleapis.com/b/art/2.jpg",
			"https://storage.googleapis.com/b/art/placeholder.png",
		},
		Icon: "https://storage.googleapis.com/b/art/icon.jpg",
	}}}
	assets := &recordingAssets{}
	svc := newTestService(t, WorkTypeArt, store, assets)

	if err := svc.Delete(context.Background(), 5, ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(store.entries) != 0 {
		t.Fatalf("entry not removed: %#v", store.entries)
	}
	want := []string{
		"https://storage.googleapis.com/b/art/1.jpg",
		"https://storage.googleapis.com/b/art/2.jpg",
		"https://storage.googleapis.com/b/art/icon.jpg",
	}
	if diff := cmp.Diff(want, assets.deleted); diff != "" {
		t.Fatalf("cleanup set mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteSurvivesCleanupFailures(t *testing.T) {
	store := &memStore{entries: []Entry{{
		ID:       5,
		WorkType: WorkTypeFilm,
		Title:    "Short",
		Images: []string{
			"https://storage.googleapis.com/b/film/1.jpg",
			"https://storage.googleapis.com/b/film/2.jpg",
		},
	}}}
	assets := &recordingAssets{failOn: map[string]error{
		"https://storage.googleapis.com/b/film/1.jpg": errors.New("boom"),
	}}
	svc := newTestService(t, WorkTypeFilm, store, assets)

	if err := svc.Delete(context.Background(), 5, ""); err != nil {
		t.Fatalf("cleanup failures must not surface: %v", err)
	}
	if len(assets.deleted) != 1 || assets.deleted[0] != "https://storage.googleapis.com/b/film/2.jpg" {
		t.Fatalf("remaining assets should still be attempted, got %v", assets.deleted)
	}
}

func TestDeleteHonorsIconHint(t *testing.T) {
	store := &memStore{entries: []Entry{{ID: 1, WorkType: WorkTypeFilm, Title: "Short"}}}
	assets := &recordingAssets{}
	svc := newTestService(t, WorkTypeFilm, store, assets)

	hint := "https://storage.googleapis.com/b/film/old-icon.jpg"
	if err := svc.Delete(context.Background(), 1, hint); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(assets.deleted) != 1 || assets.deleted[0] != hint {
		t.Fatalf("icon hint not cleaned up: %v", assets.deleted)
	}

	// A placeholder hint must never be deleted.
	store.entries = []Entry{{ID: 2, WorkType: WorkTypeFilm, Title: "Short 2"}}
	assets.deleted = nil
	if err := svc.Delete(context.Background(), 2, "https://cdn.example/placeholder.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(assets.deleted) != 0 {
		t.Fatalf("placeholder hint deleted: %v", assets.deleted)
	}
}

func TestDeleteUnknownIDIsNotFound(t *testing.T) {
	svc := newTestService(t, WorkTypeFilm, &memStore{}, &recordingAssets{})
	if err := svc.Delete(context.Background(), 404, ""); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBulkReplaceIsAllOrNothing(t *testing.T) {
	store := &memStore{entries: []Entry{{ID: 1, WorkType: WorkTypeFilm, Title: "Keep me"}}}
	svc := newTestService(t, WorkTypeFilm, store, &recordingAssets{})

	_, err := svc.BulkReplace(context.Background(), []Entry{
		{Title: "Valid"},
		{Title: ""},
	})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.saves != 0 || store.entries[0].Title != "Keep me" {
		t.Fatal("a rejected bulk replace must leave the collection untouched")
	}

	replaced, err := svc.BulkReplace(context.Background(), []Entry{
		{ID: 10, Title: "A"},
		{Title: "B"},
	})
	if err != nil {
		t.Fatalf("BulkReplace: %v", err)
	}
	if len(replaced) != 2 || len(store.entries) != 2 {
		t.Fatalf("collection not replaced: %#v", store.entries)
	}
	if replaced[1].ID == 0 || replaced[1].ID == replaced[0].ID {
		t.Fatalf("missing ids must be assigned uniquely: %#v", replaced)
	}
}

func TestBulkReplaceRejectsDuplicateIDs(t *testing.T) {
	svc := newTestService(t, WorkTypeFilm, &memStore{}, &recordingAssets{})
	_, err := svc.BulkReplace(context.Background(), []Entry{
		{ID: 3, Title: "A"},
		{ID: 3, Title: "B"},
	})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStoreFailuresSurfaceAsDependencyErrors(t *testing.T) {
	store := &memStore{loadErr: errors.New("redis down")}
	svc := newTestService(t, WorkTypeFilm, store, &recordingAssets{})

	_, err := svc.List(context.Background())
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	store.loadErr = nil
	store.saveErr = errors.New("redis down")
	_, err = svc.Create(context.Background(), Entry{Title: "X"})
	typed = apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

// Lifecycle walk-through: create, misplace an update, fix it, delete with
// cleanup. Mirrors a typical admin-panel session end to end.
func TestEntryLifecycle(t *testing.T) {
	store := &memStore{}
	assets := &recordingAssets{}
	svc := newTestService(t, WorkTypeArt, store, assets)

	created, err := svc.Create(context.Background(), Entry{
		Title:      "Hide No.1",
		Discipline: "sculpture",
		Collection: "Hides",
		Images:     []string{"https://storage.googleapis.com/b/art/hide1.jpg"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Update(context.Background(), created.ID+1, created); !apperrors.IsNotFound(err) {
		t.Fatalf("update of unknown id should be not found, got %v", err)
	}

	created.Position = 3
	updated, err := svc.Update(context.Background(), created.ID, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Position != 3 {
		t.Fatalf("position not updated: %#v", updated)
	}

	if err := svc.Delete(context.Background(), created.ID, ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.entries) != 0 {
		t.Fatal("collection should be empty after delete")
	}
	if len(assets.deleted) != 1 || assets.deleted[0] != "https://storage.googleapis.com/b/art/hide1.jpg" {
		t.Fatalf("gallery asset not cleaned up: %v", assets.deleted)
	}

	if _, err := svc.GetByID(context.Background(), created.ID); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// Store persists one work type's entries as a single document. Reads return
// the whole collection; writes replace it. The redis collection client is
// the production implementation.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// AssetStore deletes uploaded blobs by their public URL.
type AssetStore interface {
	Delete(ctx context.Context, assetURL string) error
}

// Service implements the admin CRUD over one work type's collection.
//
// Every mutation is a read-modify-write of the whole collection document.
// Two concurrent admin sessions can therefore lose each other's writes; the
// panel is single-operator in practice and the simpler storage model is the
// accepted tradeoff.
type Service struct {
	workType WorkType
	store    Store
	assets   AssetStore
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(workType WorkType, store Store, assets AssetStore, logg *logger.Logger) (*Service, error) {
	if !workType.IsValid() {
		return nil, fmt.Errorf("catalog service: invalid work type %q", workType)
	}
	if store == nil {
		return nil, fmt.Errorf("catalog service: store is required")
	}
	if assets == nil {
		return nil, fmt.Errorf("catalog service: asset store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("catalog service: logger is required")
	}
	return &Service{
		workType: workType,
		store:    store,
		assets:   assets,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *Service) WorkType() WorkType {
	return s.workType
}

// List returns every entry in storage order.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading "+s.workType.CollectionName()+" collection")
	}
	return entries, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Entry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}
	for _, entry := range entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return Entry{}, errors.New(errors.CodeNotFound, fmt.Sprintf("entry %d not found", id))
}

// Create validates, normalizes, and appends a new entry. A caller-supplied
// id is kept when it does not collide; otherwise the service assigns one.
func (s *Service) Create(ctx context.Context, candidate Entry) (Entry, error) {
	entry := candidate.normalized(s.workType)
	if err := Validate(entry); err != nil {
		return Entry{}, err
	}

	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}

	taken := idSet(entries)
	if entry.ID != 0 {
		if _, exists := taken[entry.ID]; exists {
			return Entry{}, errors.New(errors.CodeValidation, fmt.Sprintf("entry %d already exists", entry.ID))
		}
	} else {
		entry.ID = s.allocateID(taken)
	}

	if err := s.save(ctx, append(entries, entry)); err != nil {
		return Entry{}, err
	}

	ctx = s.logg.WithEntryID(s.logg.WithCollection(ctx, s.workType.CollectionName()), entry.ID)
	s.logg.Info(ctx, "catalog entry created")
	return entry, nil
}

// Update replaces the entry with candidate's id. The work type is pinned;
// an update cannot move an entry between collections.
func (s *Service) Update(ctx context.Context, id int64, candidate Entry) (Entry, error) {
	candidate.ID = id
	entry := candidate.normalized(s.workType)
	if err := Validate(entry); err != nil {
		return Entry{}, err
	}

	entries, err := s.List(ctx)
	if err != nil {
		return Entry{}, err
	}

	replaced := false
	for i := range entries {
		if entries[i].ID == id {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		return Entry{}, errors.New(errors.CodeNotFound, fmt.Sprintf("entry %d not found", id))
	}

	if err := s.save(ctx, entries); err != nil {
		return Entry{}, err
	}

	ctx = s.logg.WithEntryID(s.logg.WithCollection(ctx, s.workType.CollectionName()), id)
	s.logg.Info(ctx, "catalog entry updated")
	return entry, nil
}

// Delete removes the entry and then deletes its uploaded assets one by one.
// Asset cleanup is best effort: a failed blob delete is logged and skipped,
// never surfaced, so a half-deleted gallery cannot wedge the catalog. The
// iconHint covers admin panels that swap an icon before deleting and want
// the superseded blob cleaned up too.
func (s *Service) Delete(ctx context.Context, id int64, iconHint string) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i := range entries {
		if entries[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("entry %d not found", id))
	}

	removed := entries[index]
	remaining := append(entries[:index:index], entries[index+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return err
	}

	ctx = s.logg.WithEntryID(s.logg.WithCollection(ctx, s.workType.CollectionName()), id)
	s.logg.Info(ctx, "catalog entry deleted")

	assets := removed.AssetURLs()
	if iconHint != "" && !IsPlaceholderAsset(iconHint) && !contains(assets, iconHint) {
		assets = append(assets, iconHint)
	}
	s.cleanupAssets(ctx, assets)
	return nil
}

// BulkReplace swaps the whole collection atomically from the store's point
// of view: every candidate must validate or nothing is written.
func (s *Service) BulkReplace(ctx context.Context, candidates []Entry) ([]Entry, error) {
	normalized := make([]Entry, 0, len(candidates))
	taken := make(map[int64]struct{}, len(candidates))
	for i, candidate := range candidates {
		entry := candidate.normalized(s.workType)
		if err := Validate(entry); err != nil {
			typed := errors.As(err)
			return nil, errors.New(errors.CodeValidation, fmt.Sprintf("entry at index %d is invalid", i)).
				WithDetails(typed.Details())
		}
		if entry.ID != 0 {
			if _, exists := taken[entry.ID]; exists {
				return nil, errors.New(errors.CodeValidation, fmt.Sprintf("duplicate entry id %d at index %d", entry.ID, i))
			}
			taken[entry.ID] = struct{}{}
		}
		normalized = append(normalized, entry)
	}
	for i := range normalized {
		if normalized[i].ID == 0 {
			normalized[i].ID = s.allocateID(taken)
			taken[normalized[i].ID] = struct{}{}
		}
	}

	if err := s.save(ctx, normalized); err != nil {
		return nil, err
	}

	ctx = s.logg.WithCollection(ctx, s.workType.CollectionName())
	s.logg.Info(ctx, fmt.Sprintf("catalog collection replaced with %d entries", len(normalized)))
	return normalized, nil
}

func (s *Service) save(ctx context.Context, entries []Entry) error {
	if err := s.store.Save(ctx, entries); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving "+s.workType.CollectionName()+" collection")
	}
	return nil
}

func (s *Service) cleanupAssets(ctx context.Context, assetURLs []string) {
	for _, assetURL := range assetURLs {
		if err := s.assets.Delete(ctx, assetURL); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "asset_url", assetURL), "asset cleanup failed: "+err.Error())
		}
	}
}

// allocateID picks an id unique within the collection. Wall-clock
// milliseconds give a monotonically plausible seed; collisions (bulk
// imports, clock retreat) bump forward until free.
func (s *Service) allocateID(taken map[int64]struct{}) int64 {
	id := s.now().UnixMilli()
	for {
		if _, exists := taken[id]; !exists {
			return id
		}
		id++
	}
}

func idSet(entries []Entry) map[int64]struct{} {
	taken := make(map[int64]struct{}, len(entries))
	for _, entry := range entries {
		taken[entry.ID] = struct{}{}
	}
	return taken
}

func contains(urls []string, target string) bool {
	for _, url := range urls {
		if url == target {
			return true
		}
	}
	return false
}

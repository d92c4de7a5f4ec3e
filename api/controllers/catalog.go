package controllers

import (
	"net/http"
	"strings"

	"github.com/atelierhq/studio-backend/api/responses"
	"github.com/atelierhq/studio-backend/api/validators"
	"github.com/atelierhq/studio-backend/internal/catalog"
	"github.com/atelierhq/studio-backend/internal/placement"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// CatalogList serves the whole collection; the front end renders and
// paginates client-side.
func CatalogList(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func CatalogGet(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.IDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		entry, err := svc.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

func CatalogCreate(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var candidate catalog.Entry
		if err := validators.DecodeJSONBody(r, &candidate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), candidate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func CatalogUpdate(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.IDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var candidate catalog.Entry
		if err := validators.DecodeJSONBody(r, &candidate); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Update(r.Context(), id, candidate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// CatalogBulkReplace takes an array body and swaps the whole collection.
func CatalogBulkReplace(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var candidates []catalog.Entry
		if err := validators.DecodeJSONBody(r, &candidates); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		replaced, err := svc.BulkReplace(r.Context(), candidates)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, replaced)
	}
}

// CatalogDelete removes an entry; the optional icon query names a superseded
// icon blob to clean up alongside the entry's own assets.
func CatalogDelete(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.IDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		iconHint := strings.TrimSpace(r.URL.Query().Get("icon"))
		if err := svc.Delete(r.Context(), id, iconHint); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"deleted": id})
	}
}

// CatalogOccupancy resolves which entry holds each slot of the requested
// page. The grid query selects the shape (sheet by default, strip for the
// landing rows); art collections scope by the collection query.
func CatalogOccupancy(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := validators.IntQuery(r, "page", 1)
		grid := placement.Sheet
		if r.URL.Query().Get("grid") == "strip" {
			grid = placement.Filmstrip
		}

		var occupied map[int]catalog.Entry
		if collection := strings.TrimSpace(r.URL.Query().Get("collection")); collection != "" {
			occupied = placement.ResolveLabeledOccupancy(entries, collection, page)
		} else {
			occupied = placement.ResolveOccupancy(entries, page)
		}

		responses.WriteSuccess(w, map[string]any{
			"page":     page,
			"columns":  grid.Columns,
			"rows":     grid.Rows,
			"slots":    grid.Slots(),
			"occupied": occupied,
		})
	}
}

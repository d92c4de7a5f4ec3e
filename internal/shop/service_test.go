package shop

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	apperrors "github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

type memStore struct {
	products []Product
	saves    int
}

func (m *memStore) Load(_ context.Context) ([]Product, error) {
	out := make([]Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *memStore) Save(_ context.Context, products []Product) error {
	m.saves++
	m.products = make([]Product, len(products))
	copy(m.products, products)
	return nil
}

type recordingAssets struct {
	deleted []string
}

func (r *recordingAssets) Delete(_ context.Context, assetURL string) error {
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

func TestListDerivesPrices(t *testing.T) {
	store := &memStore{products: []Product{
		{ID: 1, Name: "Tote", OriginalPrice: 100, Discount: "20%"},
		{ID: 2, Name: "Print", OriginalPrice: 50},
	}}
	svc := newTestService(t, store, &recordingAssets{})

	priced, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if priced[0].Price != 80 {
		t.Fatalf("expected derived price 80, got %v", priced[0].Price)
	}
	if priced[1].Price != 50 {
		t.Fatalf("expected undiscounted price 50, got %v", priced[1].Price)
	}
}

// The derived price travels on the wire but must never reach storage.
func TestPriceIsNeverPersisted(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, &recordingAssets{})

	created, err := svc.Create(context.Background(), Product{
		Name:          "Tote",
		OriginalPrice: 100,
		Discount:      "25%",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Price != 75 {
		t.Fatalf("expected derived price 75, got %v", created.Price)
	}

	raw, err := json.Marshal(store.products[0])
	if err != nil {
		t.Fatalf("marshal stored product: %v", err)
	}
	if strings.Contains(string(raw), `"price"`) {
		t.Fatalf("stored record must not carry a price field: %s", raw)
	}

	// Changing the discount changes the derived price on the next read.
	updated, err := svc.Update(context.Background(), created.ID, Product{
		Name:          "Tote",
		OriginalPrice: 100,
		Discount:      "50%",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 50 {
		t.Fatalf("expected rederived price 50, got %v", updated.Price)
	}
}

func TestProductValidation(t *testing.T) {
	store := &memStore{}
	svc := newTestService(t, store, &recordingAssets{})

	_, err := svc.Create(context.Background(), Product{Name: " ", OriginalPrice: -1})
	typed := apperrors.As(err)
	if typed == nil || typed.Code() != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.saves != 0 {
		t.Fatal("invalid product must not be persisted")
	}
}

func TestProductDeleteCleansImages(t *testing.T) {
	store := &memStore{products: []Product{{
		ID:   1,
		Name: "Tote",
		Images: []string{
			"https://storage.googleapis.com/b/shop/tote-front.jpg",
			"https://storage.googleapis.com/b/shop/placeholder.png",
		},
	}}}
	assets := &recordingAssets{}
	svc := newTestService(t, store, assets)

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(assets.deleted) != 1 || assets.deleted[0] != "https://storage.googleapis.com/b/shop/tote-front.jpg" {
		t.Fatalf("unexpected cleanup set: %v", assets.deleted)
	}
}

func TestProductNotFound(t *testing.T) {
	svc := newTestService(t, &memStore{}, &recordingAssets{})
	if _, err := svc.GetByID(context.Background(), 1); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.Update(context.Background(), 1, Product{Name: "x"}); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(context.Background(), 1); !apperrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

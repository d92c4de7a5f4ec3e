// Package shop manages the store products. Products live on the document
// store; the effective sale price is derived on every read through the
// pricing package and is deliberately absent from the stored record.
package shop

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atelierhq/studio-backend/internal/pricing"
	"github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// Product is the persisted record. OriginalPrice plus Discount are the only
// pricing inputs; see PricedProduct for the read-side shape.
type Product struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	SecondaryDescription string   `json:"secondaryDescription,omitempty"`
	Images               []string `json:"images"`
	Category             string   `json:"category,omitempty"`
	OriginalPrice        float64  `json:"originalPrice"`
	Discount             string   `json:"discount,omitempty"`
	Sizes                []string `json:"sizes,omitempty"`
}

// PricedProduct is what responses carry: the stored product plus the derived
// sale price. Price exists only on the wire, never in storage.
type PricedProduct struct {
	Product
	Price float64 `json:"price"`
}

// Priced derives the effective price for one product.
func Priced(product Product) PricedProduct {
	return PricedProduct{
		Product: product,
		Price:   pricing.SalePriceFloat(product.OriginalPrice, product.Discount),
	}
}

type Store interface {
	Load(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, products []Product) error
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
		return nil, fmt.Errorf("shop service: store is required")
	}
	if assets == nil {
		return nil, fmt.Errorf("shop service: asset store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("shop service: logger is required")
	}
	return &Service{store: store, assets: assets, logg: logg, now: time.Now}, nil
}

// List returns every product with its derived price.
func (s *Service) List(ctx context.Context) ([]PricedProduct, error) {
	products, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	priced := make([]PricedProduct, 0, len(products))
	for _, product := range products {
		priced = append(priced, Priced(product))
	}
	return priced, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (PricedProduct, error) {
	products, err := s.load(ctx)
	if err != nil {
		return PricedProduct{}, err
	}
	for _, product := range products {
		if product.ID == id {
			return Priced(product), nil
		}
	}
	return PricedProduct{}, errors.New(errors.CodeNotFound, fmt.Sprintf("product %d not found", id))
}

func (s *Service) Create(ctx context.Context, candidate Product) (PricedProduct, error) {
	candidate = normalize(candidate)
	if err := validate(candidate); err != nil {
		return PricedProduct{}, err
	}

	products, err := s.load(ctx)
	if err != nil {
		return PricedProduct{}, err
	}

	candidate.ID = allocateID(s.now(), products)
	if err := s.save(ctx, append(products, candidate)); err != nil {
		return PricedProduct{}, err
	}

	s.logg.Info(s.logg.WithEntryID(ctx, candidate.ID), "store product created")
	return Priced(candidate), nil
}

func (s *Service) Update(ctx context.Context, id int64, candidate Product) (PricedProduct, error) {
	candidate.ID = id
	candidate = normalize(candidate)
	if err := validate(candidate); err != nil {
		return PricedProduct{}, err
	}

	products, err := s.load(ctx)
	if err != nil {
		return PricedProduct{}, err
	}

	replaced := false
	for i := range products {
		if products[i].ID == id {
			products[i] = candidate
			replaced = true
			break
		}
	}
	if !replaced {
		return PricedProduct{}, errors.New(errors.CodeNotFound, fmt.Sprintf("product %d not found", id))
	}

	if err := s.save(ctx, products); err != nil {
		return PricedProduct{}, err
	}

	s.logg.Info(s.logg.WithEntryID(ctx, id), "store product updated")
	return Priced(candidate), nil
}

// Delete removes the product and best-effort deletes its images.
func (s *Service) Delete(ctx context.Context, id int64) error {
	products, err := s.load(ctx)
	if err != nil {
		return err
	}

	index := -1
	for i := range products {
		if products[i].ID == id {
			index = i
			break
		}
	}
	if index == -1 {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("product %d not found", id))
	}

	removed := products[index]
	remaining := append(products[:index:index], products[index+1:]...)
	if err := s.save(ctx, remaining); err != nil {
		return err
	}

	ctx = s.logg.WithEntryID(ctx, id)
	s.logg.Info(ctx, "store product deleted")

	for _, image := range removed.Images {
		if image == "" || strings.HasSuffix(image, "/placeholder.png") {
			continue
		}
		if err := s.assets.Delete(ctx, image); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "asset_url", image), "asset cleanup failed: "+err.Error())
		}
	}
	return nil
}

func (s *Service) load(ctx context.Context) ([]Product, error) {
	products, err := s.store.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "loading shop collection")
	}
	return products, nil
}

func (s *Service) save(ctx context.Context, products []Product) error {
	if err := s.store.Save(ctx, products); err != nil {
		return errors.Wrap(errors.CodeDependency, err, "saving shop collection")
	}
	return nil
}

func normalize(product Product) Product {
	if product.Images == nil {
		product.Images = []string{}
	}
	return product
}

func validate(product Product) error {
	var problems []string
	if strings.TrimSpace(product.Name) == "" {
		problems = append(problems, "name is required")
	}
	if product.OriginalPrice < 0 {
		problems = append(problems, "originalPrice must not be negative")
	}
	if len(problems) > 0 {
		return errors.New(errors.CodeValidation, "invalid product").
			WithDetails(strings.Join(problems, "; "))
	}
	return nil
}

func allocateID(now time.Time, products []Product) int64 {
	taken := make(map[int64]struct{}, len(products))
	for _, product := range products {
		taken[product.ID] = struct{}{}
	}
	id := now.UnixMilli()
	for {
		if _, exists := taken[id]; !exists {
			return id
		}
		id++
	}
}

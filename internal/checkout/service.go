// Package checkout turns a cart into a PayPal order. Totals are always
// derived server-side from the shop collection through the pricing rule; an
// amount supplied by the browser is never trusted.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/atelierhq/studio-backend/internal/pricing"
	"github.com/atelierhq/studio-backend/internal/shop"
	"github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
	"github.com/atelierhq/studio-backend/pkg/paypal"
)

// LineItem is one cart row as submitted by the storefront.
type LineItem struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

// ProductSource resolves cart rows against the live shop collection; the
// shop service satisfies it.
type ProductSource interface {
	GetByID(ctx context.Context, id int64) (shop.PricedProduct, error)
}

// PaymentProvider is the order gateway; the paypal client satisfies it.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, amount string, items []paypal.OrderItem) (string, error)
	CaptureOrder(ctx context.Context, orderID string) (string, error)
}

type Service struct {
	products ProductSource
	provider PaymentProvider
	logg     *logger.Logger
}

func NewService(products ProductSource, provider PaymentProvider, logg *logger.Logger) (*Service, error) {
	if products == nil {
		return nil, fmt.Errorf("checkout service: product source is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("checkout service: payment provider is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("checkout service: logger is required")
	}
	return &Service{products: products, provider: provider, logg: logg}, nil
}

// CreateOrder prices the cart and opens a provider order for the derived
// total. Unknown products and non-positive quantities reject the whole cart.
func (s *Service) CreateOrder(ctx context.Context, cart []LineItem) (string, error) {
	if len(cart) == 0 {
		return "", errors.New(errors.CodeValidation, "cart is empty")
	}

	total := decimal.Zero
	items := make([]paypal.OrderItem, 0, len(cart))
	for i, line := range cart {
		if line.Quantity <= 0 {
			return "", errors.New(errors.CodeValidation, fmt.Sprintf("line %d has non-positive quantity", i))
		}

		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.IsNotFound(err) {
				return "", errors.New(errors.CodeValidation, fmt.Sprintf("product %d does not exist", line.ProductID))
			}
			return "", err
		}

		unit := pricing.SalePrice(decimal.NewFromFloat(product.OriginalPrice), product.Discount)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(line.Quantity))))

		name := product.Name
		if strings.TrimSpace(line.Size) != "" {
			name = fmt.Sprintf("%s (%s)", product.Name, line.Size)
		}
		items = append(items, paypal.OrderItem{
			Name:       name,
			Quantity:   line.Quantity,
			UnitAmount: unit.StringFixed(2),
		})
	}

	orderID, err := s.provider.CreateOrder(ctx, total.StringFixed(2), items)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "creating payment order")
	}

	s.logg.Info(s.logg.WithField(ctx, "order_id", orderID), "checkout order created")
	return orderID, nil
}

// CaptureOrder completes a previously created order and returns the
// provider's final status (e.g. "COMPLETED").
func (s *Service) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", errors.New(errors.CodeValidation, "order id is required")
	}

	status, err := s.provider.CaptureOrder(ctx, orderID)
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "capturing payment order")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"order_id": orderID, "status": status})
	s.logg.Info(ctx, "checkout order captured")
	return status, nil
}

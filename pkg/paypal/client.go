package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/atelierhq/studio-backend/pkg/config"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// Client talks to the PayPal Orders v2 API. The checkout service always
// hands it a server-derived total; client-supplied amounts never reach here.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
	secret     string
	currency   string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// OrderItem is one purchasable line forwarded to PayPal.
type OrderItem struct {
	Name     string
	Quantity int
	// UnitAmount is a decimal string like "120.00".
	UnitAmount string
}

func NewClient(ctx context.Context, cfg config.PayPalConfig, logg *logger.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.Secret == "" {
		return nil, errors.New("paypal client id and secret are required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("paypal base url is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
		currency:   cfg.Currency,
	}

	if logg != nil {
		logg.Info(ctx, "paypal client initialized")
	}
	return client, nil
}

// CreateOrder opens a PayPal order for the given decimal total and returns
// the provider order id.
func (c *Client) CreateOrder(ctx context.Context, amount string, items []OrderItem) (string, error) {
	if strings.TrimSpace(amount) == "" {
		return "", errors.New("order amount is required")
	}

	itemTotal := map[string]any{
		"currency_code": c.currency,
		"value":         amount,
	}
	unit := map[string]any{
		"amount": map[string]any{
			"currency_code": c.currency,
			"value":         amount,
		},
	}
	if len(items) > 0 {
		payloadItems := make([]map[string]any, 0, len(items))
		for _, item := range items {
			payloadItems = append(payloadItems, map[string]any{
				"name":     item.Name,
				"quantity": fmt.Sprintf("%d", item.Quantity),
				"unit_amount": map[string]any{
					"currency_code": c.currency,
					"value":         item.UnitAmount,
				},
			})
		}
		unit["items"] = payloadItems
		unit["amount"].(map[string]any)["breakdown"] = map[string]any{"item_total": itemTotal}
	}

	body := map[string]any{
		"intent":         "CAPTURE",
		"purchase_units": []any{unit},
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v2/checkout/orders", body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("paypal returned no order id")
	}
	return resp.ID, nil
}

// CaptureOrder captures a previously created order and returns its status.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", errors.New("order id is required")
	}

	var resp struct {
		Status string `json:"status"`
	}
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", url.PathEscape(orderID))
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding paypal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("paypal %s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(b)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding paypal response: %w", err)
	}
	return nil
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExpiry) > time.Minute {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal token endpoint returned %s", resp.Status)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", err
	}
	if tokenResp.AccessToken == "" {
		return "", errors.New("paypal token endpoint returned no token")
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.token, nil
}

package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atelierhq/studio-backend/pkg/config"
	"github.com/atelierhq/studio-backend/pkg/logger"
)

// Client sends transactional mail through a Resend-style HTTP API. The only
// message the backend sends is the artwork-inquiry notification.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
	to         string
}

// Inquiry is the artwork-inquiry payload rendered into the notification.
type Inquiry struct {
	Name          string
	Email         string
	Phone         string
	Comments      string
	ArtpieceTitle string
}

func NewClient(cfg config.MailConfig, logg *logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("mail api key is required")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, errors.New("mail from and to addresses are required")
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("mail base url is required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		from:       cfg.From,
		to:         cfg.To,
	}
	if logg != nil {
		logg.Info(context.Background(), "mailer client initialized")
	}
	return client, nil
}

// SendInquiry delivers the inquiry notification and returns the provider's
// message id.
func (c *Client) SendInquiry(ctx context.Context, inquiry Inquiry) (string, error) {
	subject := "New artwork inquiry"
	if inquiry.ArtpieceTitle != "" {
		subject = fmt.Sprintf("New inquiry: %s", inquiry.ArtpieceTitle)
	}

	body := map[string]any{
		"from":    c.from,
		"to":      []string{c.to},
		"subject": subject,
		"html":    renderInquiryHTML(inquiry),
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encoding mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("mail send failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var sendResp struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return "", fmt.Errorf("decoding mail response: %w", err)
	}
	return sendResp.ID, nil
}

func renderInquiryHTML(inquiry Inquiry) string {
	var b strings.Builder
	b.WriteString("<h2>Artwork inquiry</h2><ul>")
	writeField(&b, "Name", inquiry.Name)
	writeField(&b, "Email", inquiry.Email)
	writeField(&b, "Phone", inquiry.Phone)
	writeField(&b, "Artpiece", inquiry.ArtpieceTitle)
	writeField(&b, "Comments", inquiry.Comments)
	b.WriteString("</ul>")
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "<li><strong>%s:</strong> %s</li>", label, html.EscapeString(value))
}

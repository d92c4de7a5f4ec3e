// Package inquiries handles the "ask about this artwork" form: it validates
// the submission, sends the notification mail, and keeps a relational audit
// row of every outbound message.
package inquiries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atelierhq/studio-backend/pkg/errors"
	"github.com/atelierhq/studio-backend/pkg/logger"
	"github.com/atelierhq/studio-backend/pkg/mailer"
)

// Inquiry is one form submission.
type Inquiry struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	Comments      string `json:"comments,omitempty"`
	ArtpieceTitle string `json:"artpieceTitle,omitempty"`
}

// Record is the audit row written after a successful send.
type Record struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Comments      string    `json:"comments"`
	ArtpieceTitle string    `json:"artpieceTitle" gorm:"column:artpiece_title"`
	ProviderID    string    `json:"providerId" gorm:"column:provider_id"`
	CreatedAt     time.Time `json:"createdAt" gorm:"column:created_at;autoCreateTime"`
}

func (Record) TableName() string {
	return "inquiries"
}

// Sender is the mail collaborator; the mailer client satisfies it.
type Sender interface {
	SendInquiry(ctx context.Context, inquiry mailer.Inquiry) (string, error)
}

// AuditStore persists the outbound-mail audit trail.
type AuditStore interface {
	Insert(ctx context.Context, record Record) error
	Recent(ctx context.Context, limit int) ([]Record, error)
}

type Service struct {
	sender Sender
	audits AuditStore
	logg   *logger.Logger
}

func NewService(sender Sender, audits AuditStore, logg *logger.Logger) (*Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("inquiries service: sender is required")
	}
	if audits == nil {
		return nil, fmt.Errorf("inquiries service: audit store is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("inquiries service: logger is required")
	}
	return &Service{sender: sender, audits: audits, logg: logg}, nil
}

// Send validates and delivers the inquiry. Mail delivery is the operation;
// the audit row is best effort and a failed insert only logs.
func (s *Service) Send(ctx context.Context, inquiry Inquiry) (string, error) {
	if err := validate(inquiry); err != nil {
		return "", err
	}

	providerID, err := s.sender.SendInquiry(ctx, mailer.Inquiry{
		Name:          inquiry.Name,
		Email:         inquiry.Email,
		Phone:         inquiry.Phone,
		Comments:      inquiry.Comments,
		ArtpieceTitle: inquiry.ArtpieceTitle,
	})
	if err != nil {
		return "", errors.Wrap(errors.CodeDependency, err, "sending inquiry mail")
	}

	record := Record{
		Name:          inquiry.Name,
		Email:         inquiry.Email,
		Phone:         inquiry.Phone,
		Comments:      inquiry.Comments,
		ArtpieceTitle: inquiry.ArtpieceTitle,
		ProviderID:    providerID,
	}
	if err := s.audits.Insert(ctx, record); err != nil {
		s.logg.Warn(ctx, "inquiry audit insert failed: "+err.Error())
	}

	s.logg.Info(s.logg.WithField(ctx, "provider_id", providerID), "inquiry sent")
	return providerID, nil
}

// Recent returns the latest audit rows, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Record, error) {
	records, err := s.audits.Recent(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "listing inquiries")
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

func validate(inquiry Inquiry) error {
	var problems []string
	if strings.TrimSpace(inquiry.Name) == "" {
		problems = append(problems, "name is required")
	}
	email := strings.TrimSpace(inquiry.Email)
	if email == "" {
		problems = append(problems, "email is required")
	} else if !strings.Contains(email, "@") {
		problems = append(problems, "email is malformed")
	}
	if len(problems) > 0 {
		return errors.New(errors.CodeValidation, "invalid inquiry").
			WithDetails(strings.Join(problems, "; "))
	}
	return nil
}

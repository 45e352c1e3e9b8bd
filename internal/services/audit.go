package services

import (
	"context"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/repositories"
	"ticket-storefront/internal/utils"

	"go.uber.org/zap"
)

// AttemptRecord describes a finished order submission for auditing. The raw
// card number is only used to derive the fingerprint and last four digits.
type AttemptRecord struct {
	CustomerID     string
	EventID        string
	CartID         string
	ItemCount      int
	Total          models.Money
	Installments   int
	CardNumber     string
	Outcome        models.CheckoutOutcome
	UpstreamStatus int
	Err            error
}

// AttemptStore persists checkout attempts
type AttemptStore interface {
	Create(ctx context.Context, req *models.CheckoutAttemptCreateRequest) (*models.CheckoutAttempt, error)
}

var _ AttemptStore = (*repositories.CheckoutAttemptRepository)(nil)

// AuditService records checkout attempts
type AuditService struct {
	store  AttemptStore
	salt   []byte
	logger *zap.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(store AttemptStore, fingerprintSalt string, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		store:  store,
		salt:   []byte(fingerprintSalt),
		logger: logger.Named("audit"),
	}
}

// RecordAttempt stores one attempt
func (s *AuditService) RecordAttempt(ctx context.Context, attempt *AttemptRecord) error {
	req := &models.CheckoutAttemptCreateRequest{
		CustomerID:     attempt.CustomerID,
		EventID:        attempt.EventID,
		CartID:         attempt.CartID,
		ItemCount:      attempt.ItemCount,
		TotalCents:     attempt.Total.Cents(),
		Installments:   attempt.Installments,
		CardLastFour:   utils.CardLastFour(attempt.CardNumber),
		Outcome:        attempt.Outcome,
		UpstreamStatus: attempt.UpstreamStatus,
	}
	if attempt.Err != nil {
		req.ErrorMessage = attempt.Err.Error()
	}

	fingerprint, err := utils.CardFingerprint(attempt.CardNumber, s.salt)
	if err != nil {
		s.logger.Warn("card fingerprint unavailable", zap.Error(err))
	} else {
		req.CardFingerprint = fingerprint
	}

	_, err = s.store.Create(ctx, req)
	return err
}

// NoopAuditor discards attempts when no database is configured
type NoopAuditor struct{}

func (NoopAuditor) RecordAttempt(ctx context.Context, attempt *AttemptRecord) error {
	return nil
}

package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ticket-storefront/internal/models"
)

// CheckoutAttemptRepository handles checkout attempt audit records
type CheckoutAttemptRepository struct {
	db *sql.DB
}

// NewCheckoutAttemptRepository creates a new checkout attempt repository
func NewCheckoutAttemptRepository(db *sql.DB) *CheckoutAttemptRepository {
	return &CheckoutAttemptRepository{db: db}
}

// Create records a checkout attempt
func (r *CheckoutAttemptRepository) Create(ctx context.Context, req *models.CheckoutAttemptCreateRequest) (*models.CheckoutAttempt, error) {
	query := `
		INSERT INTO checkout_attempts (customer_id, event_id, cart_id, item_count, total_cents, installments,
		                               card_fingerprint, card_last_four, outcome, upstream_status, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, customer_id, event_id, cart_id, item_count, total_cents, installments,
		          card_fingerprint, card_last_four, outcome, upstream_status, error_message, created_at`

	attempt := &models.CheckoutAttempt{}
	err := r.db.QueryRowContext(ctx, query,
		req.CustomerID,
		req.EventID,
		req.CartID,
		req.ItemCount,
		req.TotalCents,
		req.Installments,
		req.CardFingerprint,
		req.CardLastFour,
		string(req.Outcome),
		req.UpstreamStatus,
		req.ErrorMessage,
		time.Now().UTC(),
	).Scan(scanTargets(attempt)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout attempt: %w", err)
	}

	return attempt, nil
}

// ListByCustomer returns a customer's most recent attempts, newest first
func (r *CheckoutAttemptRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]*models.CheckoutAttempt, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, customer_id, event_id, cart_id, item_count, total_cents, installments,
		       card_fingerprint, card_last_four, outcome, upstream_status, error_message, created_at
		FROM checkout_attempts
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query checkout attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*models.CheckoutAttempt
	for rows.Next() {
		attempt := &models.CheckoutAttempt{}
		if err := rows.Scan(scanTargets(attempt)...); err != nil {
			return nil, fmt.Errorf("failed to scan checkout attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checkout attempts: %w", err)
	}

	return attempts, nil
}

// CountRecentByFingerprint counts attempts made with the same card since a
// point in time, regardless of customer
func (r *CheckoutAttemptRepository) CountRecentByFingerprint(ctx context.Context, fingerprint string, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM checkout_attempts WHERE card_fingerprint = $1 AND created_at >= $2",
		fingerprint, since.UTC(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count checkout attempts: %w", err)
	}
	return count, nil
}

func scanTargets(a *models.CheckoutAttempt) []interface{} {
	return []interface{}{
		&a.ID,
		&a.CustomerID,
		&a.EventID,
		&a.CartID,
		&a.ItemCount,
		&a.TotalCents,
		&a.Installments,
		&a.CardFingerprint,
		&a.CardLastFour,
		&a.Outcome,
		&a.UpstreamStatus,
		&a.ErrorMessage,
		&a.CreatedAt,
	}
}

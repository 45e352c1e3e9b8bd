package services

import (
	"context"
	"errors"
	"testing"

	"ticket-storefront/internal/models"
	"ticket-storefront/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAttemptStore struct {
	mock.Mock
}

func (m *mockAttemptStore) Create(ctx context.Context, req *models.CheckoutAttemptCreateRequest) (*models.CheckoutAttempt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckoutAttempt), args.Error(1)
}

func TestAuditService_RecordAttempt(t *testing.T) {
	salt := "storefront-test-salt"
	store := &mockAttemptStore{}

	var stored *models.CheckoutAttemptCreateRequest
	store.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*models.CheckoutAttemptCreateRequest) }).
		Return(&models.CheckoutAttempt{ID: 1}, nil)

	service := NewAuditService(store, salt, nil)
	err := service.RecordAttempt(context.Background(), &AttemptRecord{
		CustomerID:     testCustomerID,
		EventID:        testEventID,
		CartID:         "cart-1",
		ItemCount:      3,
		Total:          models.Money(37500),
		Installments:   2,
		CardNumber:     "4111111111111111",
		Outcome:        models.OutcomeRejected,
		UpstreamStatus: 500,
		Err:            errors.New("orders API submit order: unexpected status 500"),
	})
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, int64(37500), stored.TotalCents)
	assert.Equal(t, "1111", stored.CardLastFour)
	assert.NotContains(t, stored.CardFingerprint, "4111111111111111")

	want, err := utils.CardFingerprint("4111111111111111", []byte(salt))
	require.NoError(t, err)
	assert.Equal(t, want, stored.CardFingerprint)
	assert.Equal(t, models.OutcomeRejected, stored.Outcome)
	assert.Contains(t, stored.ErrorMessage, "500")
}

func TestAuditService_ShortSaltSkipsFingerprint(t *testing.T) {
	store := &mockAttemptStore{}
	store.On("Create", mock.Anything, mock.MatchedBy(func(req *models.CheckoutAttemptCreateRequest) bool {
		return req.CardFingerprint == "" && req.CardLastFour == "4242"
	})).Return(&models.CheckoutAttempt{ID: 2}, nil)

	service := NewAuditService(store, "short", nil)
	err := service.RecordAttempt(context.Background(), &AttemptRecord{CardNumber: "4242424242424242", Outcome: models.OutcomeSucceeded})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

package services

import (
	"context"

	"ticket-storefront/internal/models"
)

// CatalogService lists the ticket types of the storefront's event
type CatalogService struct {
	api     OrdersAPI
	eventID string
}

// NewCatalogService creates a catalog bound to one event
func NewCatalogService(api OrdersAPI, eventID string) *CatalogService {
	return &CatalogService{api: api, eventID: eventID}
}

// ListTicketTypes fetches the current ticket types, inventory included
func (s *CatalogService) ListTicketTypes(ctx context.Context) ([]models.TicketType, error) {
	return s.api.ListTicketTypes(ctx, s.eventID)
}

// EventID returns the event the catalog serves
func (s *CatalogService) EventID() string {
	return s.eventID
}

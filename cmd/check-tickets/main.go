package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"ticket-storefront/internal/config"
	"ticket-storefront/internal/models"
	"ticket-storefront/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	pflag.StringVar(&cfg.API.BaseURL, "api-base-url", cfg.API.BaseURL, "orders API base URL")
	pflag.StringVar(&cfg.Storefront.EventID, "event-id", cfg.Storefront.EventID, "event to inspect")
	pflag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := services.NewOrdersAPIClient(services.OrdersAPIConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ticketTypes, err := client.ListTicketTypes(ctx, cfg.Storefront.EventID)
	if err != nil {
		logger.Fatal("failed to list ticket types", zap.String("event_id", cfg.Storefront.EventID), zap.Error(err))
	}

	fmt.Printf("Ticket types for event %s\n\n", cfg.Storefront.EventID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tAVAILABLE\tSTATUS")
	available := 0
	for _, tt := range ticketTypes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			tt.ID, tt.Name, models.FormatMoney(tt.Price, cfg.Storefront.CurrencySymbol), tt.AvailableQuantity, availability(tt))
		if tt.CanPurchase() {
			available += tt.AvailableQuantity
		}
	}
	w.Flush()

	fmt.Printf("\nTotal Ticket Types: %d\n", len(ticketTypes))
	fmt.Printf("Tickets On Sale: %d\n", available)
}

func availability(tt models.TicketType) string {
	switch {
	case !tt.Active:
		return "inactive"
	case tt.IsSoldOut():
		return "sold out"
	default:
		return "on sale"
	}
}

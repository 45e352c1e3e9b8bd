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
	"ticket-storefront/internal/database"
	"ticket-storefront/internal/repositories"
	"ticket-storefront/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	customerID := pflag.String("customer", cfg.Storefront.DefaultCustomerID, "customer whose orders are listed")
	attempts := pflag.Int("attempts", 0, "also list this many recent checkout attempts from the database")
	pflag.StringVar(&cfg.API.BaseURL, "api-base-url", cfg.API.BaseURL, "orders API base URL")
	pflag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := services.NewOrdersAPIClient(services.OrdersAPIConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)

	views, err := services.NewOrderService(client).ListOrders(ctx, *customerID)
	if err != nil {
		logger.Fatal("failed to list orders", zap.String("customer_id", *customerID), zap.Error(err))
	}

	fmt.Printf("Orders for customer %s\n\n", *customerID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tEVENT\tTOTAL\tSTATUS\tTICKETS")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s (%s)\t%d\n",
			v.ID, v.CreatedAt.Display(), v.EventName, v.TotalValue, v.StatusInfo.Label(), v.PaymentStatus, len(v.Tickets))
	}
	w.Flush()
	fmt.Printf("\nTotal Orders: %d\n", len(views))

	if *attempts <= 0 {
		return
	}
	if !cfg.Database.Enabled() {
		logger.Fatal("--attempts needs a database; set DATABASE_URL or DB_HOST")
	}

	db, err := database.NewConnection(ctx, database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	recent, err := repositories.NewCheckoutAttemptRepository(db.DB).ListByCustomer(ctx, *customerID, *attempts)
	if err != nil {
		logger.Fatal("failed to list checkout attempts", zap.Error(err))
	}

	fmt.Printf("\nRecent checkout attempts\n\n")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AT\tOUTCOME\tUPSTREAM\tITEMS\tTOTAL (CENTS)\tCARD")
	for _, a := range recent {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t**** %s\n",
			a.CreatedAt.Format(time.RFC3339), a.Outcome, a.UpstreamStatus, a.ItemCount, a.TotalCents, a.CardLastFour)
	}
	w.Flush()
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/config"
	"github.com/shopledger/ledgerapi/internal/repository/postgres"
	"github.com/shopledger/ledgerapi/internal/service"
	"github.com/shopledger/ledgerapi/internal/shopify"
)

// Runs a full product sync for one operator from the command line, without
// going through the HTTP API. Credentials come from SHOPIFY_STORE_URL and
// SHOPIFY_TOKEN, falling back to the operator's stored credentials.
func main() {
	_ = godotenv.Load()

	emailFlag := flag.String("email", "", "Operator email whose product set to sync")
	flag.Parse()

	if *emailFlag == "" {
		fmt.Println("Usage: go run cmd/sync-products/main.go --email \"ops@example.com\"")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	repos := postgres.NewRepositories(db, logger)
	ctx := context.Background()

	user, err := repos.User.GetByEmail(ctx, *emailFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to find user: %v\n", err)
		os.Exit(1)
	}

	storeURL := os.Getenv("SHOPIFY_STORE_URL")
	token := os.Getenv("SHOPIFY_TOKEN")
	if storeURL == "" || token == "" {
		creds, err := repos.Credentials.GetByUserID(ctx, user.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "No credentials in environment or database: %v\n", err)
			os.Exit(1)
		}
		storeURL = creds.StoreURL
		token = creds.AccessToken
	}

	syncService := service.NewSyncService(shopify.NewClient(logger), repos, logger)
	count, err := syncService.SyncProducts(ctx, storeURL, token, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Synced %d products for %s\n", count, user.Email)
}

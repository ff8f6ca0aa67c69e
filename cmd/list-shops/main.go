package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/service"
	"github.com/shopledger/ledgerapi/internal/shopify"
)

// Fetches the store's shop_name metaobjects and prints them, one per line.
// Useful for checking what the sync reconciler will see. Requires
// SHOPIFY_STORE_URL and SHOPIFY_TOKEN in the environment or a .env file.
func main() {
	_ = godotenv.Load()

	storeURL := os.Getenv("SHOPIFY_STORE_URL")
	token := os.Getenv("SHOPIFY_TOKEN")
	if storeURL == "" || token == "" {
		fmt.Fprintln(os.Stderr, "SHOPIFY_STORE_URL and SHOPIFY_TOKEN must be set")
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	syncService := service.NewSyncService(shopify.NewClient(logger), nil, logger)
	shops, err := syncService.ListShops(context.Background(), storeURL, token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch shops: %v\n", err)
		os.Exit(1)
	}

	if len(shops) == 0 {
		fmt.Println("No shop_name metaobjects found.")
		return
	}

	for _, shop := range shops {
		name := shop.DisplayName
		if name == "" {
			name = shop.Handle
		}
		fmt.Printf("%s\t%s\n", name, shop.ID)
	}
}

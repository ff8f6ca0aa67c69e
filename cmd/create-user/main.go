package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/shopledger/ledgerapi/internal/api/middleware"
	"github.com/shopledger/ledgerapi/internal/config"
	"github.com/shopledger/ledgerapi/internal/domain"
	"github.com/shopledger/ledgerapi/internal/repository/postgres"
)

func main() {
	emailFlag := flag.String("email", "", "Operator email address")
	apiKeyFlag := flag.String("api-key", "", "API key for this operator (save it; it cannot be retrieved later)")
	flag.Parse()

	var email, apiKey string
	if *emailFlag != "" && *apiKeyFlag != "" {
		email = *emailFlag
		apiKey = *apiKeyFlag
	} else if flag.NArg() >= 2 {
		email = flag.Arg(0)
		apiKey = flag.Arg(1)
	} else {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/create-user/main.go --email \"ops@example.com\" --api-key \"your-api-key\"")
		fmt.Println("  go run cmd/create-user/main.go \"ops@example.com\" \"your-api-key\"")
		os.Exit(1)
	}

	// Trim so the stored hash matches what the server receives (AuthMiddleware trims the Bearer token)
	email = strings.TrimSpace(email)
	apiKey = strings.TrimSpace(apiKey)
	if email == "" || apiKey == "" {
		fmt.Fprintf(os.Stderr, "Error: email and API key cannot be empty after trimming.\n")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Hash the API key (bcrypt for verification; SHA256 hex for fast lookup)
	apiKeyHash, err := middleware.HashAPIKey(apiKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash API key: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create user
	user := &domain.User{
		Email:        email,
		APIKeyHash:   apiKeyHash,
		APIKeyLookup: middleware.APIKeyLookupHex(apiKey),
		IsActive:     true,
	}

	err = repos.User.Create(context.Background(), user)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ User created successfully!\n\n")
	fmt.Printf("User ID: %s\n", user.ID.String())
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("API Key: %s\n", apiKey)
	fmt.Printf("\n⚠️  IMPORTANT: Save this API key securely! You won't be able to see it again.\n")
	fmt.Printf("\nUse this API key in the Authorization header:\n")
	fmt.Printf("Authorization: Bearer %s\n", apiKey)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ekoelbar/barclient/internal/barapi"
	"github.com/ekoelbar/barclient/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-beer/main.go <query>")
		fmt.Println("Example: go run cmd/find-beer/main.go \"pilsner\"")
		os.Exit(1)
	}

	query := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := barapi.NewClient(cfg.API, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Printf("🔍 Searching for beer: %s\n\n", query)

	beers, err := client.SearchBeers(ctx, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}

	if len(beers) == 0 {
		fmt.Printf("❌ No beers matched %q\n", query)
		os.Exit(1)
	}

	for _, beer := range beers {
		fmt.Printf("✅ #%d %s (%s) %s kr\n", beer.ID, beer.Name, beer.Type, beer.Price.StringFixed(2))
		if beer.AlcoholPercentage != nil {
			fmt.Printf("   %.1f%% alc.", *beer.AlcoholPercentage)
			if beer.Country != "" {
				fmt.Printf(" from %s", beer.Country)
			}
			fmt.Println()
		}
		if !beer.Available {
			fmt.Printf("   ⚠️  currently unavailable\n")
		}

		data, _ := json.MarshalIndent(beer, "   ", "  ")
		fmt.Printf("   %s\n\n", data)
	}

	fmt.Printf("Found %d beer(s)\n", len(beers))
}

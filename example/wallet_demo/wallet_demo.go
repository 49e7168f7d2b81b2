package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	walletsdk "github.com/subtext-wallet/go-sdk"
	"github.com/subtext-wallet/go-sdk/store/inmemorystore"
)

func main() {
	userID := flag.String("user", "demo-user", "User identity owning the wallet")
	timeout := flag.Duration("timeout", 15*time.Second, "Per-endpoint connection timeout")

	flag.Parse()

	client, err := walletsdk.New(
		inmemorystore.NewWalletStore(),
		walletsdk.WithConnectTimeout(*timeout),
	)
	if err != nil {
		log.Fatal("failed to create client:", err)
	}
	defer client.Close()

	ctx := context.Background()

	record, created, err := client.CreateWallet(ctx, *userID)
	if err != nil {
		log.Fatal("failed to create wallet:", err)
	}
	fmt.Printf("wallet for %s (created=%v): %s\n", *userID, created, record.Address)

	fmt.Println("supported tokens:")
	for _, token := range client.SupportedTokens() {
		fmt.Printf("  %s on %s (%s, %d decimals)\n", token.Symbol, token.ChainName, token.Kind, token.Decimals)
	}

	fmt.Println("checking endpoint reachability...")
	for _, health := range client.ProbeEndpoints(ctx) {
		if health.Reachable {
			fmt.Printf("  %s reachable in %s\n", health.Endpoint, health.Latency)
		} else {
			fmt.Printf("  %s unreachable: %s\n", health.Endpoint, health.Err)
		}
	}

	fmt.Println("fetching balances across all chains...")
	balances, err := client.GetAllBalances(ctx, *userID)
	if err != nil {
		log.Fatal("failed to fetch balances:", err)
	}
	for _, balance := range balances.Balances {
		fmt.Printf("  %s %s on %s\n", balance.Balance, balance.Symbol, balance.Chain)
	}
}

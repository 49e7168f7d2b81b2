// Package walletsdk is a multi-chain wallet engine for Substrate networks.
// It derives and stores sr25519 wallets, aggregates balances across every
// chain in the token catalog, executes keep-alive transfers and moves
// assets between chains with XCM reserve transfers.
package walletsdk

import (
	"context"

	"github.com/subtext-wallet/go-sdk/chain"
	"github.com/subtext-wallet/go-sdk/types"
)

var Version string

type WalletClient interface {
	// CreateWallet provisions a wallet for the user or returns the
	// existing one. The bool reports whether a new wallet was created.
	CreateWallet(ctx context.Context, userID string) (*types.WalletRecord, bool, error)
	// ExportWalletDetails returns the stored record plus the raw private
	// key. Only call on an explicit, confirmed export request.
	ExportWalletDetails(ctx context.Context, userID string) (*types.WalletDetails, error)
	SupportedTokens() []types.Token
	GetAllBalances(ctx context.Context, userID string) (*types.UserBalances, error)
	GetBalance(ctx context.Context, userID, symbol, chainID string) (*types.TokenBalance, error)
	Transfer(ctx context.Context, userID, symbol, recipient, amount string) (*types.TransferResult, error)
	Bridge(ctx context.Context, req types.BridgeRequest) (*types.BridgeResult, error)
	ProbeEndpoints(ctx context.Context) []chain.EndpointHealth
	Close()
}

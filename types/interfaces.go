package types

import (
	"context"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
)

// WalletStore persists one record per user identity. Implementations must
// reject a second insert for the same user id.
type WalletStore interface {
	AddWallet(ctx context.Context, record WalletRecord) error
	GetWallet(ctx context.Context, userID string) (*WalletRecord, error)
	Close()
}

// ChainConn is a live connection to one chain endpoint. Balance queries
// return the raw integer amount; absent records yield zero.
type ChainConn interface {
	NativeBalance(ctx context.Context, accountID []byte) (*big.Int, error)
	AssetBalance(ctx context.Context, assetID uint32, accountID []byte) (*big.Int, error)
	ForeignBalance(ctx context.Context, accountID []byte, currencyID uint32) (*big.Int, error)
	SubmitNativeTransfer(ctx context.Context, sender signature.KeyringPair, recipient []byte, amount *big.Int) (string, error)
	SubmitAssetTransfer(ctx context.Context, sender signature.KeyringPair, assetID uint32, recipient []byte, amount *big.Int) (string, error)
	ReserveTransferAssets(ctx context.Context, sender signature.KeyringPair, transfer ReserveTransfer) (string, error)
	Close()
}

// ChainDialer opens connections on demand. Every aggregate operation dials
// at most once per distinct endpoint and closes what it opened; connections
// are never reused across operations.
type ChainDialer interface {
	Dial(ctx context.Context, endpoint string) (ChainConn, error)
}

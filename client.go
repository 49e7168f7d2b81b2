package walletsdk

import (
	"context"
	"encoding/hex"
	"strings"
	"time"

	"github.com/subtext-wallet/go-sdk/chain"
	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/registry"
	"github.com/subtext-wallet/go-sdk/types"
	"github.com/subtext-wallet/go-sdk/wallet"
)

type walletClient struct {
	registry *registry.Registry
	wallets  wallet.Service
	store    types.WalletStore
	dialer   types.ChainDialer
	prober   *chain.Manager

	connectTimeout time.Duration
}

func New(store types.WalletStore, opts ...Option) (WalletClient, error) {
	if store == nil {
		return nil, sdkerr.New(sdkerr.KindInvalidInput, "missing wallet store")
	}

	client := &walletClient{
		store:          store,
		connectTimeout: chain.DefaultConnectTimeout,
	}
	for _, opt := range opts {
		if err := opt(client); err != nil {
			return nil, err
		}
	}

	if client.registry == nil {
		client.registry = registry.Default()
	}
	client.prober = chain.NewManager(client.connectTimeout)
	if client.dialer == nil {
		client.dialer = client.prober
	}
	client.wallets = wallet.NewService(store)

	return client, nil
}

func (c *walletClient) CreateWallet(ctx context.Context, userID string) (*types.WalletRecord, bool, error) {
	return c.wallets.Create(ctx, userID)
}

func (c *walletClient) ExportWalletDetails(ctx context.Context, userID string) (*types.WalletDetails, error) {
	return c.wallets.Details(ctx, userID)
}

func (c *walletClient) SupportedTokens() []types.Token {
	return c.registry.Tokens()
}

func (c *walletClient) ProbeEndpoints(ctx context.Context) []chain.EndpointHealth {
	endpoints := c.registry.Endpoints()
	health := make([]chain.EndpointHealth, 0, len(endpoints))
	for _, endpoint := range endpoints {
		health = append(health, c.prober.ProbeEndpoint(ctx, endpoint))
	}
	return health
}

func (c *walletClient) Close() {
	c.store.Close()
}

// accountID extracts the raw 32-byte account id from a stored record.
func accountID(record *types.WalletRecord) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(record.PublicKey, "0x"))
	if err != nil || len(raw) != 32 {
		return nil, sdkerr.Newf(sdkerr.KindUnknown, "malformed public key for user %s", record.UserID)
	}
	return raw, nil
}

package walletsdk

import (
	"time"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/registry"
	"github.com/subtext-wallet/go-sdk/types"
)

type Option func(*walletClient) error

// WithConnectTimeout overrides the per-endpoint connection budget.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *walletClient) error {
		if timeout <= 0 {
			return sdkerr.New(sdkerr.KindInvalidInput, "connect timeout must be positive")
		}
		c.connectTimeout = timeout
		return nil
	}
}

// WithRegistry replaces the built-in token catalog.
func WithRegistry(r *registry.Registry) Option {
	return func(c *walletClient) error {
		if r == nil {
			return sdkerr.New(sdkerr.KindInvalidInput, "missing registry")
		}
		c.registry = r
		return nil
	}
}

// WithChainDialer replaces how chain connections are opened.
func WithChainDialer(dialer types.ChainDialer) Option {
	return func(c *walletClient) error {
		if dialer == nil {
			return sdkerr.New(sdkerr.KindInvalidInput, "missing chain dialer")
		}
		c.dialer = dialer
		return nil
	}
}

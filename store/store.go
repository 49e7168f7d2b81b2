package store

import (
	"fmt"

	filestore "github.com/subtext-wallet/go-sdk/store/file"
	"github.com/subtext-wallet/go-sdk/store/inmemorystore"
	kvstore "github.com/subtext-wallet/go-sdk/store/kv"
	sqlstore "github.com/subtext-wallet/go-sdk/store/sql"
	"github.com/subtext-wallet/go-sdk/types"
)

type Config struct {
	StoreType string
	BaseDir   string
}

// NewWalletStore builds the wallet store selected by the config. An empty
// store type yields the in-memory store.
func NewWalletStore(cfg Config) (types.WalletStore, error) {
	switch cfg.StoreType {
	case types.InMemoryStore, "":
		return inmemorystore.NewWalletStore(), nil
	case types.KVStore:
		return kvstore.NewWalletStore(cfg.BaseDir, nil)
	case types.SQLStore:
		db, err := sqlstore.OpenDB(cfg.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %s", err)
		}
		return sqlstore.NewWalletStore(db), nil
	case types.FileStore:
		return filestore.NewWalletStore(cfg.BaseDir)
	default:
		return nil, fmt.Errorf("unknown store type %s", cfg.StoreType)
	}
}

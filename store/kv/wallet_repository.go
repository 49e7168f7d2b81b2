package kvstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"

	"github.com/subtext-wallet/go-sdk/types"
)

const (
	walletStoreDir = "wallets"
)

type walletStore struct {
	db *badgerhold.Store
}

type walletRecord struct {
	UserID    string
	Mnemonic  string
	Address   string
	PublicKey string
}

func NewWalletStore(dir string, logger badger.Logger) (types.WalletStore, error) {
	if dir != "" {
		dir = filepath.Join(dir, walletStoreDir)
	}
	badgerDb, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet store: %s", err)
	}
	return &walletStore{
		db: badgerDb,
	}, nil
}

func (s *walletStore) AddWallet(_ context.Context, record types.WalletRecord) error {
	rec := walletRecord{
		UserID:    record.UserID,
		Mnemonic:  record.Mnemonic,
		Address:   record.Address,
		PublicKey: record.PublicKey,
	}
	if err := s.db.Insert(record.UserID, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return fmt.Errorf("wallet already exists for user %s", record.UserID)
		}
		return err
	}
	return nil
}

func (s *walletStore) GetWallet(_ context.Context, userID string) (*types.WalletRecord, error) {
	var rec walletRecord
	if err := s.db.Get(userID, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &types.WalletRecord{
		UserID:    rec.UserID,
		Mnemonic:  rec.Mnemonic,
		Address:   rec.Address,
		PublicKey: rec.PublicKey,
	}, nil
}

func (s *walletStore) Close() {
	if err := s.db.Close(); err != nil {
		log.Debugf("error on closing wallet db: %s", err)
	}
}

func createDB(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger
	if dbDir == "" {
		opts.InMemory = true
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

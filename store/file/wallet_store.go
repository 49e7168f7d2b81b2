package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/subtext-wallet/go-sdk/types"
)

const walletsFile = "wallets.json"

type walletData struct {
	UserID    string `json:"user_id"`
	Mnemonic  string `json:"mnemonic"`
	Address   string `json:"address"`
	PublicKey string `json:"public_key"`
}

type walletStore struct {
	mu      sync.Mutex
	path    string
	wallets map[string]walletData
}

func NewWalletStore(dir string) (types.WalletStore, error) {
	path := filepath.Join(dir, walletsFile)
	wallets := make(map[string]walletData)

	buf, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open wallet store: %s", err)
	}
	if len(buf) > 0 {
		if err := json.Unmarshal(buf, &wallets); err != nil {
			return nil, fmt.Errorf("failed to parse wallet store: %s", err)
		}
	}

	return &walletStore{
		path:    path,
		wallets: wallets,
	}, nil
}

func (s *walletStore) AddWallet(_ context.Context, record types.WalletRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[record.UserID]; ok {
		return fmt.Errorf("wallet already exists for user %s", record.UserID)
	}
	s.wallets[record.UserID] = walletData{
		UserID:    record.UserID,
		Mnemonic:  record.Mnemonic,
		Address:   record.Address,
		PublicKey: record.PublicKey,
	}
	return s.flush()
}

func (s *walletStore) GetWallet(_ context.Context, userID string) (*types.WalletRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.wallets[userID]
	if !ok {
		return nil, nil
	}
	return &types.WalletRecord{
		UserID:    data.UserID,
		Mnemonic:  data.Mnemonic,
		Address:   data.Address,
		PublicKey: data.PublicKey,
	}, nil
}

func (s *walletStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.flush(); err != nil {
		log.Debugf("error on closing wallet store: %s", err)
	}
}

// flush writes the whole map through a temp file so a crash never leaves a
// truncated store behind. Callers hold the lock.
func (s *walletStore) flush() error {
	buf, err := json.MarshalIndent(s.wallets, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

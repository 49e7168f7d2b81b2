package inmemorystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/subtext-wallet/go-sdk/types"
)

type walletStore struct {
	mu      sync.RWMutex
	wallets map[string]types.WalletRecord
}

func NewWalletStore() types.WalletStore {
	return &walletStore{
		wallets: make(map[string]types.WalletRecord),
	}
}

func (s *walletStore) AddWallet(_ context.Context, record types.WalletRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[record.UserID]; ok {
		return fmt.Errorf("wallet already exists for user %s", record.UserID)
	}
	s.wallets[record.UserID] = record
	return nil
}

func (s *walletStore) GetWallet(_ context.Context, userID string) (*types.WalletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.wallets[userID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *walletStore) Close() {}

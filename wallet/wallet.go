// Package wallet owns key material. One record is kept per user identity;
// the mnemonic is the sole root of trust and signing keypairs are always
// re-derived from it, never stored.
package wallet

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/ChainSafe/go-schnorrkel"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/cosmos/go-bip39"
	log "github.com/sirupsen/logrus"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/types"
)

const mnemonicEntropyBits = 128

type Service interface {
	// Create generates and persists a wallet for the user, or returns the
	// existing record unchanged. The second return reports whether a new
	// wallet was created.
	Create(ctx context.Context, userID string) (*types.WalletRecord, bool, error)
	// SigningKeypair re-derives the sr25519 keypair from the stored
	// mnemonic. Callers must not retain it beyond the operation.
	SigningKeypair(ctx context.Context, userID string) (signature.KeyringPair, error)
	// Details returns the stored record plus the raw hex-encoded mini
	// secret, for explicit user-confirmed export only.
	Details(ctx context.Context, userID string) (*types.WalletDetails, error)
}

type service struct {
	store types.WalletStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewService(store types.WalletStore) Service {
	return &service{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *service) Create(ctx context.Context, userID string) (*types.WalletRecord, bool, error) {
	if userID == "" {
		return nil, false, sdkerr.New(sdkerr.KindInvalidInput, "user id is required")
	}

	// First-time creation for one user is serialized in-process; the store
	// still enforces uniqueness across processes.
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.store.GetWallet(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load wallet for user %s: %s", userID, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate entropy: %s", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, false, fmt.Errorf("failed to generate mnemonic: %s", err)
	}

	pair, err := signature.KeyringPairFromSecret(mnemonic, types.SS58Prefix)
	if err != nil {
		return nil, false, fmt.Errorf("failed to derive keypair: %s", err)
	}

	record := types.WalletRecord{
		UserID:    userID,
		Mnemonic:  mnemonic,
		Address:   pair.Address,
		PublicKey: "0x" + hex.EncodeToString(pair.PublicKey),
	}
	if err := s.store.AddWallet(ctx, record); err != nil {
		return nil, false, fmt.Errorf("failed to persist wallet for user %s: %s", userID, err)
	}

	log.Infof("created wallet for user %s with address %s", userID, record.Address)
	return &record, true, nil
}

func (s *service) SigningKeypair(ctx context.Context, userID string) (signature.KeyringPair, error) {
	record, err := s.load(ctx, userID)
	if err != nil {
		return signature.KeyringPair{}, err
	}
	pair, err := signature.KeyringPairFromSecret(record.Mnemonic, types.SS58Prefix)
	if err != nil {
		return signature.KeyringPair{}, fmt.Errorf("failed to derive keypair for user %s: %s", userID, err)
	}
	return pair, nil
}

func (s *service) Details(ctx context.Context, userID string) (*types.WalletDetails, error) {
	record, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	miniSecret, err := schnorrkel.MiniSecretKeyFromMnemonic(record.Mnemonic, "")
	if err != nil {
		return nil, fmt.Errorf("failed to derive mini secret for user %s: %s", userID, err)
	}
	seed := miniSecret.Encode()
	return &types.WalletDetails{
		WalletRecord: *record,
		PrivateKey:   hex.EncodeToString(seed[:]),
	}, nil
}

func (s *service) load(ctx context.Context, userID string) (*types.WalletRecord, error) {
	record, err := s.store.GetWallet(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallet for user %s: %s", userID, err)
	}
	if record == nil {
		return nil, sdkerr.Newf(sdkerr.KindNotFound, "no wallet found for user %s", userID)
	}
	return record, nil
}

func (s *service) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/subtext-wallet/go-sdk/types"
)

const (
	driverName = "sqlite"
	dbFile     = "wallets.db"

	walletSchema = `
CREATE TABLE IF NOT EXISTS wallet (
	user_id TEXT PRIMARY KEY,
	mnemonic TEXT NOT NULL,
	address TEXT NOT NULL,
	public_key TEXT NOT NULL
);`
)

type walletStore struct {
	db *sql.DB
}

// OpenDB opens (and creates if needed) the sqlite database backing the
// wallet store.
func OpenDB(dir string) (*sql.DB, error) {
	db, err := sql.Open(driverName, filepath.Join(dir, dbFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open wallet db: %s", err)
	}
	if _, err := db.Exec(walletSchema); err != nil {
		//nolint:errcheck
		db.Close()
		return nil, fmt.Errorf("failed to init wallet schema: %s", err)
	}
	return db, nil
}

func NewWalletStore(db *sql.DB) types.WalletStore {
	return &walletStore{
		db: db,
	}
}

func (s *walletStore) AddWallet(ctx context.Context, record types.WalletRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		"INSERT INTO wallet (user_id, mnemonic, address, public_key) VALUES (?, ?, ?, ?)",
		record.UserID, record.Mnemonic, record.Address, record.PublicKey,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("wallet already exists for user %s", record.UserID)
		}
		return err
	}
	return nil
}

func (s *walletStore) GetWallet(ctx context.Context, userID string) (*types.WalletRecord, error) {
	row := s.db.QueryRowContext(
		ctx,
		"SELECT user_id, mnemonic, address, public_key FROM wallet WHERE user_id = ?",
		userID,
	)
	var record types.WalletRecord
	if err := row.Scan(&record.UserID, &record.Mnemonic, &record.Address, &record.PublicKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (s *walletStore) Close() {
	if err := s.db.Close(); err != nil {
		log.Debugf("error on closing wallet db: %s", err)
	}
}

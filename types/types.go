package types

import (
	"fmt"
	"math/big"
)

const (
	InMemoryStore = "inmemory"
	KVStore       = "kv"
	SQLStore      = "sql"
	FileStore     = "file"
)

// SS58Prefix is the network prefix applied to every derived address. The
// generic Substrate prefix is used consistently for creation and
// re-derivation.
const SS58Prefix uint16 = 42

type TokenKind string

const (
	TokenKindNative  TokenKind = "native"
	TokenKindAsset   TokenKind = "asset"
	TokenKindForeign TokenKind = "foreign"
)

func (k TokenKind) Valid() bool {
	switch k {
	case TokenKindNative, TokenKindAsset, TokenKindForeign:
		return true
	}
	return false
}

// AssetLocation describes where an asset lives relative to the chain that
// holds it, as a parents count plus an interior path like "Here" or
// "X1(Parachain(1000))".
type AssetLocation struct {
	Parents  uint8  `yaml:"parents"`
	Interior string `yaml:"interior"`
}

// Token is one registry entry. Several entries may share a symbol (same
// token on different chains) or a chain (different tokens on one chain);
// the (symbol, chain) pair is the lookup key.
type Token struct {
	Symbol      string        `yaml:"symbol"`
	Chain       string        `yaml:"chain"`
	ChainName   string        `yaml:"chain_name"`
	Endpoint    string        `yaml:"endpoint"`
	Kind        TokenKind     `yaml:"kind"`
	Decimals    int           `yaml:"decimals"`
	AssetID     *uint32       `yaml:"asset_id"`
	ParachainID *uint32       `yaml:"parachain_id"`
	Location    AssetLocation `yaml:"location"`
}

func (t Token) String() string {
	return fmt.Sprintf("%s@%s", t.Symbol, t.Chain)
}

// WalletRecord is the persisted key material for one user identity. The
// mnemonic is the sole root of trust; derived keys are never stored.
type WalletRecord struct {
	UserID    string
	Mnemonic  string
	Address   string
	PublicKey string
}

// WalletDetails extends the record with the raw hex-encoded mini secret,
// returned only on explicit export.
type WalletDetails struct {
	WalletRecord
	PrivateKey string
}

type TokenBalance struct {
	Symbol   string
	Chain    string
	Balance  string
	Decimals int
	Kind     TokenKind
}

type UserBalances struct {
	UserID      string
	Address     string
	TotalTokens int
	Balances    []TokenBalance
}

type TransferResult struct {
	Symbol    string
	Chain     string
	Recipient string
	Amount    string
	TxHash    string
}

type BridgeRequest struct {
	SourceChain  string
	DestChain    string
	SenderUserID string
	Symbol       string
	Amount       string
}

type BridgeResult struct {
	Symbol      string
	SourceChain string
	DestChain   string
	Recipient   string
	Amount      string
	TxHash      string
}

// ReserveTransfer carries the resolved parameters of a cross-chain
// reserve transfer. Beneficiary is the 32-byte account id embedded at the
// destination.
type ReserveTransfer struct {
	DestParaID  uint32
	Beneficiary [32]byte
	Asset       AssetLocation
	Amount      *big.Int
}

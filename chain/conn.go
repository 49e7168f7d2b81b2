package chain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	ctypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
)

// Conn is a live connection to one chain. It caches the runtime metadata
// fetched at connect time; everything else is queried per call.
type Conn struct {
	endpoint string
	api      *gsrpc.SubstrateAPI
	meta     *ctypes.Metadata

	closeOnce sync.Once
}

// assetAccount is the prefix of the pallet-assets account record; only the
// leading balance field is needed.
type assetAccount struct {
	Balance ctypes.U128
}

// ormlAccountData matches the orml-tokens account record used by chains
// that track foreign assets in a generic tokens pallet.
type ormlAccountData struct {
	Free     ctypes.U128
	Reserved ctypes.U128
	Frozen   ctypes.U128
}

func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.api.Client.Close()
	})
}

// NativeBalance reads the free balance of the system account record. An
// absent record yields zero.
func (c *Conn) NativeBalance(ctx context.Context, accountID []byte) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key, err := ctypes.CreateStorageKey(c.meta, "System", "Account", accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to build account key: %s", err)
	}
	var info ctypes.AccountInfo
	ok, err := c.api.RPC.State.GetStorageLatest(key, &info)
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %s", err)
	}
	if !ok || info.Data.Free.Int == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(info.Data.Free.Int), nil
}

// AssetBalance reads the pallet-assets account record keyed by
// (assetID, account).
func (c *Conn) AssetBalance(ctx context.Context, assetID uint32, accountID []byte) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assetKey, err := codec.Encode(ctypes.NewU32(assetID))
	if err != nil {
		return nil, fmt.Errorf("failed to encode asset id: %s", err)
	}
	key, err := ctypes.CreateStorageKey(c.meta, "Assets", "Account", assetKey, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to build asset account key: %s", err)
	}
	var account assetAccount
	ok, err := c.api.RPC.State.GetStorageLatest(key, &account)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset account: %s", err)
	}
	if !ok || account.Balance.Int == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(account.Balance.Int), nil
}

// ForeignBalance reads the generic token-account record keyed by
// (account, currencyID). Chains without the pallet fail the query; callers
// treat that as zero.
func (c *Conn) ForeignBalance(ctx context.Context, accountID []byte, currencyID uint32) (*big.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	currencyKey, err := codec.Encode(ctypes.NewU32(currencyID))
	if err != nil {
		return nil, fmt.Errorf("failed to encode currency id: %s", err)
	}
	key, err := ctypes.CreateStorageKey(c.meta, "Tokens", "Accounts", accountID, currencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build token account key: %s", err)
	}
	var account ormlAccountData
	ok, err := c.api.RPC.State.GetStorageLatest(key, &account)
	if err != nil {
		return nil, fmt.Errorf("failed to query token account: %s", err)
	}
	if !ok || account.Free.Int == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(account.Free.Int), nil
}

// SubmitNativeTransfer submits a keep-alive balance transfer and returns
// the submission hash without waiting for inclusion.
func (c *Conn) SubmitNativeTransfer(ctx context.Context, sender signature.KeyringPair, recipient []byte, amount *big.Int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest, err := ctypes.NewMultiAddressFromAccountID(recipient)
	if err != nil {
		return "", fmt.Errorf("failed to build destination address: %s", err)
	}
	call, err := ctypes.NewCall(c.meta, "Balances.transfer_keep_alive", dest, ctypes.NewUCompact(amount))
	if err != nil {
		return "", fmt.Errorf("failed to build transfer call: %s", err)
	}
	return c.signAndSubmit(sender, call)
}

// SubmitAssetTransfer submits a keep-alive pallet-assets transfer.
func (c *Conn) SubmitAssetTransfer(ctx context.Context, sender signature.KeyringPair, assetID uint32, recipient []byte, amount *big.Int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest, err := ctypes.NewMultiAddressFromAccountID(recipient)
	if err != nil {
		return "", fmt.Errorf("failed to build destination address: %s", err)
	}
	call, err := ctypes.NewCall(
		c.meta, "Assets.transfer_keep_alive",
		ctypes.NewUCompactFromUInt(uint64(assetID)), dest, ctypes.NewUCompact(amount),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build asset transfer call: %s", err)
	}
	return c.signAndSubmit(sender, call)
}

func (c *Conn) signAndSubmit(sender signature.KeyringPair, call ctypes.Call) (string, error) {
	ext := ctypes.NewExtrinsic(call)
	opts, err := c.signatureOptions(sender.PublicKey)
	if err != nil {
		return "", err
	}
	if err := ext.Sign(sender, opts); err != nil {
		return "", fmt.Errorf("failed to sign extrinsic: %s", err)
	}
	hash, err := c.api.RPC.Author.SubmitExtrinsic(ext)
	if err != nil {
		return "", fmt.Errorf("failed to submit extrinsic: %s", err)
	}
	return hash.Hex(), nil
}

func (c *Conn) signatureOptions(senderPubKey []byte) (ctypes.SignatureOptions, error) {
	genesisHash, err := c.api.RPC.Chain.GetBlockHash(0)
	if err != nil {
		return ctypes.SignatureOptions{}, fmt.Errorf("failed to fetch genesis hash: %s", err)
	}
	runtimeVersion, err := c.api.RPC.State.GetRuntimeVersionLatest()
	if err != nil {
		return ctypes.SignatureOptions{}, fmt.Errorf("failed to fetch runtime version: %s", err)
	}
	key, err := ctypes.CreateStorageKey(c.meta, "System", "Account", senderPubKey)
	if err != nil {
		return ctypes.SignatureOptions{}, fmt.Errorf("failed to build account key: %s", err)
	}
	var info ctypes.AccountInfo
	if _, err := c.api.RPC.State.GetStorageLatest(key, &info); err != nil {
		return ctypes.SignatureOptions{}, fmt.Errorf("failed to fetch account nonce: %s", err)
	}

	return ctypes.SignatureOptions{
		BlockHash:          genesisHash,
		Era:                ctypes.ExtrinsicEra{IsImmortalEra: true},
		GenesisHash:        genesisHash,
		Nonce:              ctypes.NewUCompactFromUInt(uint64(info.Nonce)),
		SpecVersion:        runtimeVersion.SpecVersion,
		Tip:                ctypes.NewUCompactFromUInt(0),
		TransactionVersion: runtimeVersion.TransactionVersion,
	}, nil
}

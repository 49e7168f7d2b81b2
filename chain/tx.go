package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	ctypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
)

// signAndWatch submits the call and follows the status stream to
// finalization, decoding any dispatch error recorded in the finalized
// block. Once broadcast the extrinsic cannot be cancelled; the watcher
// always runs to a terminal status.
func (c *Conn) signAndWatch(ctx context.Context, sender signature.KeyringPair, call ctypes.Call) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := ctypes.NewExtrinsic(call)
	opts, err := c.signatureOptions(sender.PublicKey)
	if err != nil {
		return "", err
	}
	if err := ext.Sign(sender, opts); err != nil {
		return "", fmt.Errorf("failed to sign extrinsic: %s", err)
	}

	txHash, err := extrinsicHash(ext)
	if err != nil {
		return "", fmt.Errorf("failed to hash extrinsic: %s", err)
	}

	sub, err := c.api.RPC.Author.SubmitAndWatchExtrinsic(ext)
	if err != nil {
		return "", fmt.Errorf("failed to submit extrinsic: %s", err)
	}
	defer sub.Unsubscribe()

	return trackExtrinsic(sub.Chan(), sub.Err(), txHash.Hex(), func(blockHash ctypes.Hash) error {
		return c.inspectFinalized(blockHash, txHash)
	})
}

// trackExtrinsic drives the submission lifecycle. Inclusion in a block is
// informational only; finalization settles the outcome, with the inspect
// callback surfacing any dispatch failure recorded on chain. Terminal pool
// statuses and stream errors reject immediately.
func trackExtrinsic(
	statusCh <-chan ctypes.ExtrinsicStatus, errCh <-chan error,
	txHash string, inspect func(blockHash ctypes.Hash) error,
) (string, error) {
	for {
		select {
		case status, ok := <-statusCh:
			if !ok {
				return "", sdkerr.Newf(sdkerr.KindUnknown, "status stream for extrinsic %s closed before finalization", txHash)
			}
			switch {
			case status.IsInBlock:
				log.Infof("extrinsic %s included in block %s", txHash, status.AsInBlock.Hex())
			case status.IsFinalized:
				if err := inspect(status.AsFinalized); err != nil {
					return "", err
				}
				log.Infof("extrinsic %s finalized in block %s", txHash, status.AsFinalized.Hex())
				return txHash, nil
			case status.IsDropped:
				return "", sdkerr.Newf(sdkerr.KindDispatchFailure, "extrinsic %s was dropped from the pool", txHash)
			case status.IsInvalid:
				return "", sdkerr.Newf(sdkerr.KindDispatchFailure, "extrinsic %s was rejected as invalid", txHash)
			case status.IsUsurped:
				return "", sdkerr.Newf(sdkerr.KindDispatchFailure, "extrinsic %s was usurped", txHash)
			case status.IsFinalityTimeout:
				return "", sdkerr.Newf(sdkerr.KindDispatchFailure, "finality timed out for extrinsic %s", txHash)
			}
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			return "", sdkerr.Wrap(sdkerr.KindUnknown, fmt.Sprintf("error while watching extrinsic %s", txHash), err)
		}
	}
}

// inspectFinalized looks up the extrinsic in the finalized block and
// checks the block's events for an ExtrinsicFailed record at its index.
// Event decoding is diagnostic: if the runtime's event layout defeats it,
// finalization is reported as success with a warning.
func (c *Conn) inspectFinalized(blockHash ctypes.Hash, txHash ctypes.Hash) error {
	block, err := c.api.RPC.Chain.GetBlock(blockHash)
	if err != nil {
		log.Warnf("failed to fetch finalized block %s: %s", blockHash.Hex(), err)
		return nil
	}

	index := -1
	for i := range block.Block.Extrinsics {
		hash, err := extrinsicHash(block.Block.Extrinsics[i])
		if err != nil {
			continue
		}
		if hash == txHash {
			index = i
			break
		}
	}
	if index < 0 {
		log.Warnf("extrinsic %s not found in finalized block %s", txHash.Hex(), blockHash.Hex())
		return nil
	}

	failure, err := c.extrinsicFailure(blockHash, index)
	if err != nil {
		log.Warnf("failed to decode events of block %s: %s", blockHash.Hex(), err)
		return nil
	}
	return failure
}

func (c *Conn) extrinsicFailure(blockHash ctypes.Hash, index int) (error, error) {
	key, err := ctypes.CreateStorageKey(c.meta, "System", "Events")
	if err != nil {
		return nil, err
	}
	raw, err := c.api.RPC.State.GetStorageRaw(key, blockHash)
	if err != nil {
		return nil, err
	}

	events := ctypes.EventRecords{}
	if err := ctypes.EventRecordsRaw(*raw).DecodeEventRecords(c.meta, &events); err != nil {
		return nil, err
	}

	for _, failed := range events.System_ExtrinsicFailed {
		if !failed.Phase.IsApplyExtrinsic || int(failed.Phase.AsApplyExtrinsic) != index {
			continue
		}
		return sdkerr.New(sdkerr.KindDispatchFailure, c.describeDispatchError(failed.DispatchError)), nil
	}
	return nil, nil
}

func (c *Conn) describeDispatchError(dispatchErr ctypes.DispatchError) string {
	switch {
	case dispatchErr.IsModule:
		return c.describeModuleError(dispatchErr.ModuleError)
	case dispatchErr.IsBadOrigin:
		return "transaction rejected: bad origin"
	case dispatchErr.IsCannotLookup:
		return "transaction rejected: cannot lookup"
	case dispatchErr.IsToken:
		return "transaction rejected: token error"
	case dispatchErr.IsArithmetic:
		return "transaction rejected: arithmetic error"
	default:
		return "transaction rejected by the runtime"
	}
}

// describeModuleError resolves a module error against the chain's metadata
// registry to a "section.name: docs" message.
func (c *Conn) describeModuleError(moduleErr ctypes.ModuleError) string {
	fallback := fmt.Sprintf("module error pallet=%d error=%d", moduleErr.Index, moduleErr.Error[0])
	if c.meta == nil || c.meta.Version != 14 {
		return fallback
	}
	for _, pallet := range c.meta.AsMetadataV14.Pallets {
		if pallet.Index != moduleErr.Index {
			continue
		}
		if !pallet.HasErrors {
			return fallback
		}
		errType, ok := c.meta.AsMetadataV14.EfficientLookup[pallet.Errors.Type.Int64()]
		if !ok || !errType.Def.IsVariant {
			return fallback
		}
		for _, variant := range errType.Def.Variant.Variants {
			if variant.Index != moduleErr.Error[0] {
				continue
			}
			docs := make([]string, 0, len(variant.Docs))
			for _, doc := range variant.Docs {
				docs = append(docs, string(doc))
			}
			return fmt.Sprintf(
				"%s.%s: %s",
				pallet.Name, variant.Name, strings.TrimSpace(strings.Join(docs, " ")),
			)
		}
		return fallback
	}
	return fallback
}

func extrinsicHash(ext ctypes.Extrinsic) (ctypes.Hash, error) {
	enc, err := codec.Encode(ext)
	if err != nil {
		return ctypes.Hash{}, err
	}
	digest := blake2b.Sum256(enc)
	return ctypes.NewHash(digest[:]), nil
}

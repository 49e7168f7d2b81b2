package walletsdk

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/internal/utils"
	"github.com/subtext-wallet/go-sdk/types"
)

// Bridge moves an asset between two catalog chains with an XCM reserve
// transfer. The beneficiary is the sender's own account on the
// destination chain. Unlike Transfer, the call is followed to
// finalization and any dispatch error recorded on chain rejects it.
func (c *walletClient) Bridge(ctx context.Context, req types.BridgeRequest) (*types.BridgeResult, error) {
	if _, ok := c.registry.FindChain(req.SourceChain); !ok {
		return nil, sdkerr.Newf(sdkerr.KindUnsupportedChain, "unsupported source chain %s", req.SourceChain)
	}
	dest, ok := c.registry.FindChain(req.DestChain)
	if !ok {
		return nil, sdkerr.Newf(sdkerr.KindUnsupportedChain, "unsupported destination chain %s", req.DestChain)
	}
	token, ok := c.registry.FindToken(req.Symbol, req.SourceChain)
	if !ok {
		return nil, sdkerr.Newf(
			sdkerr.KindUnsupportedAsset, "asset %s is not registered on chain %s", req.Symbol, req.SourceChain,
		)
	}

	raw, err := utils.ParseHumanAmount(req.Amount, token.Decimals)
	if err != nil {
		return nil, sdkerr.Wrap(sdkerr.KindInvalidInput, fmt.Sprintf("invalid amount %q", req.Amount), err)
	}

	sender, err := c.wallets.SigningKeypair(ctx, req.SenderUserID)
	if err != nil {
		return nil, err
	}

	var destParaID uint32
	if dest.ParachainID != nil {
		destParaID = *dest.ParachainID
	}
	var beneficiary [32]byte
	copy(beneficiary[:], sender.PublicKey)

	conn, err := c.dialer.Dial(ctx, token.Endpoint)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	// The pre-flight check always reads the native system account, whatever
	// kind of asset is bridged: the source chain pays fees and withdraws
	// from it.
	balance, err := conn.NativeBalance(ctx, sender.PublicKey)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(raw) < 0 {
		return nil, sdkerr.Newf(
			sdkerr.KindInsufficientBalance,
			"insufficient balance on %s: have %s, need %s", req.SourceChain, balance, raw,
		)
	}

	log.Infof(
		"bridging %s %s from %s to %s for user %s",
		req.Amount, req.Symbol, req.SourceChain, req.DestChain, req.SenderUserID,
	)
	txHash, err := conn.ReserveTransferAssets(ctx, sender, types.ReserveTransfer{
		DestParaID:  destParaID,
		Beneficiary: beneficiary,
		Asset:       token.Location,
		Amount:      raw,
	})
	if err != nil {
		return nil, err
	}

	return &types.BridgeResult{
		Symbol:      req.Symbol,
		SourceChain: req.SourceChain,
		DestChain:   req.DestChain,
		Recipient:   sender.Address,
		Amount:      req.Amount,
		TxHash:      txHash,
	}, nil
}

package walletsdk

import (
	"context"
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	log "github.com/sirupsen/logrus"
	"github.com/vedhavyas/go-subkey/v2"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/internal/utils"
	"github.com/subtext-wallet/go-sdk/types"
)

// Transfer sends amount of symbol to the recipient address. Candidate
// chains are tried in catalog order and the first one holding a
// sufficient balance executes the transfer with a keep-alive call. The
// returned hash is the submission hash; settlement is not awaited.
func (c *walletClient) Transfer(
	ctx context.Context, userID, symbol, recipient, amount string,
) (*types.TransferResult, error) {
	candidates := c.registry.BySymbol(symbol)
	if len(candidates) == 0 {
		return nil, sdkerr.Newf(sdkerr.KindUnsupportedToken, "unsupported token %s", symbol)
	}

	_, recipientID, err := subkey.SS58Decode(recipient)
	if err != nil {
		return nil, sdkerr.Wrap(sdkerr.KindInvalidInput, fmt.Sprintf("invalid recipient address %s", recipient), err)
	}

	sender, err := c.wallets.SigningKeypair(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, token := range candidates {
		raw, err := utils.ParseHumanAmount(amount, token.Decimals)
		if err != nil {
			return nil, sdkerr.Wrap(sdkerr.KindInvalidInput, fmt.Sprintf("invalid amount %q", amount), err)
		}

		txHash, err := c.transferOn(ctx, token, sender, recipientID, raw)
		if err != nil {
			if sdkerr.KindOf(err) == sdkerr.KindUnsupportedTokenKind {
				return nil, err
			}
			log.Warnf("skipping %s: %s", token, err)
			continue
		}
		if txHash == "" {
			continue
		}
		return &types.TransferResult{
			Symbol:    token.Symbol,
			Chain:     token.Chain,
			Recipient: recipient,
			Amount:    amount,
			TxHash:    txHash,
		}, nil
	}

	return nil, sdkerr.Newf(sdkerr.KindInsufficientBalance, "insufficient %s balance on every chain", symbol)
}

// transferOn executes on one candidate chain, reusing a single connection
// for the balance check and the submission. An empty hash with nil error
// means the chain holds too little and the next candidate should be tried.
func (c *walletClient) transferOn(
	ctx context.Context, token types.Token,
	sender signature.KeyringPair, recipientID []byte, raw *big.Int,
) (string, error) {
	conn, err := c.dialer.Dial(ctx, token.Endpoint)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	balance, err := queryBalance(ctx, conn, token, sender.PublicKey)
	if err != nil {
		return "", err
	}
	if balance.Cmp(raw) < 0 {
		log.Debugf("%s holds %s, need %s", token, balance, raw)
		return "", nil
	}

	switch token.Kind {
	case types.TokenKindNative:
		return conn.SubmitNativeTransfer(ctx, sender, recipientID, raw)
	case types.TokenKindAsset:
		return conn.SubmitAssetTransfer(ctx, sender, *token.AssetID, recipientID, raw)
	default:
		return "", sdkerr.Newf(
			sdkerr.KindUnsupportedTokenKind, "token %s of kind %s cannot be transferred directly", token, token.Kind,
		)
	}
}

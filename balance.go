package walletsdk

import (
	"context"
	"math/big"
	"sync"

	log "github.com/sirupsen/logrus"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/internal/utils"
	"github.com/subtext-wallet/go-sdk/registry"
	"github.com/subtext-wallet/go-sdk/types"
)

// GetAllBalances sweeps every token in the catalog. Endpoints are queried
// concurrently with one connection each; an unreachable endpoint zeroes
// the balances it serves instead of failing the sweep.
func (c *walletClient) GetAllBalances(ctx context.Context, userID string) (*types.UserBalances, error) {
	record, err := c.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	account, err := accountID(record)
	if err != nil {
		return nil, err
	}

	tokens := c.registry.Tokens()
	balances := make([]types.TokenBalance, len(tokens))
	for i, token := range tokens {
		balances[i] = types.TokenBalance{
			Symbol:   token.Symbol,
			Chain:    token.Chain,
			Balance:  "0",
			Decimals: token.Decimals,
			Kind:     token.Kind,
		}
	}

	wg := sync.WaitGroup{}
	for _, group := range c.registry.GroupByEndpoint() {
		wg.Add(1)
		go func(group registry.EndpointGroup) {
			defer wg.Done()
			c.sweepEndpoint(ctx, group, tokens, account, balances)
		}(group)
	}
	wg.Wait()

	return &types.UserBalances{
		UserID:      userID,
		Address:     record.Address,
		TotalTokens: len(tokens),
		Balances:    balances,
	}, nil
}

// GetBalance queries a single catalog entry.
func (c *walletClient) GetBalance(ctx context.Context, userID, symbol, chainID string) (*types.TokenBalance, error) {
	token, ok := c.registry.FindToken(symbol, chainID)
	if !ok {
		return nil, sdkerr.Newf(sdkerr.KindUnsupportedToken, "unsupported token %s on chain %s", symbol, chainID)
	}

	record, err := c.loadRecord(ctx, userID)
	if err != nil {
		return nil, err
	}
	account, err := accountID(record)
	if err != nil {
		return nil, err
	}

	conn, err := c.dialer.Dial(ctx, token.Endpoint)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	raw, err := queryBalance(ctx, conn, token, account)
	if err != nil {
		return nil, err
	}
	return &types.TokenBalance{
		Symbol:   token.Symbol,
		Chain:    token.Chain,
		Balance:  utils.FormatRawAmount(raw, token.Decimals),
		Decimals: token.Decimals,
		Kind:     token.Kind,
	}, nil
}

func (c *walletClient) sweepEndpoint(
	ctx context.Context, group registry.EndpointGroup,
	tokens []types.Token, account []byte, balances []types.TokenBalance,
) {
	conn, err := c.dialer.Dial(ctx, group.Endpoint)
	if err != nil {
		log.Warnf("skipping endpoint %s: %s", group.Endpoint, err)
		return
	}
	defer conn.Close()

	for _, i := range group.Indexes {
		raw, err := queryBalance(ctx, conn, tokens[i], account)
		if err != nil {
			log.Warnf("failed to query %s: %s", tokens[i], err)
			continue
		}
		balances[i].Balance = utils.FormatRawAmount(raw, tokens[i].Decimals)
	}
}

func queryBalance(ctx context.Context, conn types.ChainConn, token types.Token, account []byte) (*big.Int, error) {
	switch token.Kind {
	case types.TokenKindNative:
		return conn.NativeBalance(ctx, account)
	case types.TokenKindAsset, types.TokenKindForeign:
		// Enforced at catalog load; kept here so a malformed entry degrades
		// to a reported failure instead of a panic in the sweep.
		if token.AssetID == nil {
			return nil, sdkerr.Newf(sdkerr.KindUnsupportedAsset, "token %s is missing asset id", token)
		}
		if token.Kind == types.TokenKindAsset {
			return conn.AssetBalance(ctx, *token.AssetID, account)
		}
		return conn.ForeignBalance(ctx, account, *token.AssetID)
	}
	return nil, sdkerr.Newf(sdkerr.KindUnsupportedTokenKind, "unsupported token kind %q", token.Kind)
}

func (c *walletClient) loadRecord(ctx context.Context, userID string) (*types.WalletRecord, error) {
	record, err := c.store.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, sdkerr.Newf(sdkerr.KindNotFound, "no wallet found for user %s", userID)
	}
	return record, nil
}

package walletsdk

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/types"
)

func TestGetAllBalancesZeroFillsUnreachableEndpoint(t *testing.T) {
	dialer := &fakeDialer{
		conns: map[string]*fakeConn{
			relayEndpoint:    {nativeBalance: big.NewInt(12_345_000_000)},
			assetHubEndpoint: {nativeBalance: big.NewInt(5_000_000_000)},
		},
		dialErrs: map[string]error{
			hydraEndpoint: errors.New("connection refused"),
		},
	}
	client, record := newTestClient(t, dialer)

	balances, err := client.GetAllBalances(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, record.Address, balances.Address)
	require.Equal(t, 4, balances.TotalTokens)
	require.Len(t, balances.Balances, 4)

	// catalog order is preserved
	require.Equal(t, "paseo", balances.Balances[0].Chain)
	require.Equal(t, "1.2345", balances.Balances[0].Balance)
	require.Equal(t, "0.5", balances.Balances[1].Balance)
	// both hydration tokens zero out when the endpoint is down
	require.Equal(t, "0", balances.Balances[2].Balance)
	require.Equal(t, "0", balances.Balances[3].Balance)
}

func TestGetAllBalancesIsolatesTokenQueryFailure(t *testing.T) {
	dialer := &fakeDialer{
		conns: map[string]*fakeConn{
			hydraEndpoint: {
				nativeBalance: big.NewInt(7_000_000_000_000),
				foreignErr:    errors.New("storage query failed"),
			},
		},
	}
	client, _ := newTestClient(t, dialer)

	balances, err := client.GetAllBalances(context.Background(), "user-1")
	require.NoError(t, err)

	// DOT on hydration fails its query, HDX on the same connection does not
	require.Equal(t, "0", balances.Balances[2].Balance)
	require.Equal(t, "7", balances.Balances[3].Balance)
}

func TestGetAllBalancesAllEndpointsUnreachable(t *testing.T) {
	dialer := &fakeDialer{
		dialErrs: map[string]error{
			relayEndpoint:    errors.New("connection refused"),
			assetHubEndpoint: errors.New("connection refused"),
			hydraEndpoint:    errors.New("connection refused"),
		},
	}
	client, _ := newTestClient(t, dialer)

	balances, err := client.GetAllBalances(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, balances.Balances, 4)
	for _, balance := range balances.Balances {
		require.Equal(t, "0", balance.Balance)
	}
}

func TestQueryBalanceRejectsMissingAssetID(t *testing.T) {
	token := types.Token{Symbol: "DOT", Chain: "hydradx-paseo", Kind: types.TokenKindForeign}

	_, err := queryBalance(context.Background(), &fakeConn{}, token, nil)
	require.Error(t, err)
	require.Equal(t, sdkerr.KindUnsupportedAsset, sdkerr.KindOf(err))
}

func TestGetAllBalancesUnknownUser(t *testing.T) {
	client, _ := newTestClient(t, &fakeDialer{})

	_, err := client.GetAllBalances(context.Background(), "nobody")
	require.Error(t, err)
	require.Equal(t, sdkerr.KindNotFound, sdkerr.KindOf(err))
}

func TestGetBalanceSingleToken(t *testing.T) {
	dialer := &fakeDialer{
		conns: map[string]*fakeConn{
			hydraEndpoint: {foreignBalance: map[uint32]*big.Int{5: big.NewInt(25_000_000_000)}},
		},
	}
	client, _ := newTestClient(t, dialer)

	balance, err := client.GetBalance(context.Background(), "user-1", "DOT", "hydradx-paseo")
	require.NoError(t, err)
	require.Equal(t, "2.5", balance.Balance)
	require.Equal(t, 10, balance.Decimals)
}

func TestGetBalanceUnsupportedToken(t *testing.T) {
	client, _ := newTestClient(t, &fakeDialer{})

	_, err := client.GetBalance(context.Background(), "user-1", "KSM", "paseo")
	require.Error(t, err)
	require.Equal(t, sdkerr.KindUnsupportedToken, sdkerr.KindOf(err))
}

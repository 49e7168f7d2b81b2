package wallet_test

import (
	"context"
	"encoding/hex"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/store/inmemorystore"
	"github.com/subtext-wallet/go-sdk/wallet"
)

func TestCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := wallet.NewService(inmemorystore.NewWalletStore())

	first, created, err := svc.Create(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, first.Address)
	require.NotEmpty(t, first.Mnemonic)
	require.True(t, strings.HasPrefix(first.PublicKey, "0x"))

	second, created, err := svc.Create(ctx, "user-1")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, first.Address, second.Address)
	require.Equal(t, first.Mnemonic, second.Mnemonic)
}

func TestCreateConcurrentSameUser(t *testing.T) {
	ctx := context.Background()
	svc := wallet.NewService(inmemorystore.NewWalletStore())

	const callers = 8
	addresses := make([]string, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, _, err := svc.Create(ctx, "user-racy")
			require.NoError(t, err)
			addresses[i] = record.Address
		}(i)
	}
	wg.Wait()

	for _, addr := range addresses {
		require.Equal(t, addresses[0], addr)
	}
}

func TestSigningKeypairRederivesSameKey(t *testing.T) {
	ctx := context.Background()
	svc := wallet.NewService(inmemorystore.NewWalletStore())

	record, _, err := svc.Create(ctx, "user-2")
	require.NoError(t, err)

	pair, err := svc.SigningKeypair(ctx, "user-2")
	require.NoError(t, err)
	require.Equal(t, record.Address, pair.Address)
	require.Equal(t, record.PublicKey, "0x"+hex.EncodeToString(pair.PublicKey))
}

func TestSigningKeypairUnknownUser(t *testing.T) {
	svc := wallet.NewService(inmemorystore.NewWalletStore())

	_, err := svc.SigningKeypair(context.Background(), "nobody")
	require.Error(t, err)
	require.Equal(t, sdkerr.KindNotFound, sdkerr.KindOf(err))
}

func TestDetailsExportsRawSeed(t *testing.T) {
	ctx := context.Background()
	svc := wallet.NewService(inmemorystore.NewWalletStore())

	_, _, err := svc.Create(ctx, "user-3")
	require.NoError(t, err)

	details, err := svc.Details(ctx, "user-3")
	require.NoError(t, err)
	require.Len(t, details.PrivateKey, 64)
	_, err = hex.DecodeString(details.PrivateKey)
	require.NoError(t, err)

	// the seed is re-derived from the mnemonic, so exports are stable
	again, err := svc.Details(ctx, "user-3")
	require.NoError(t, err)
	require.Equal(t, details.PrivateKey, again.PrivateKey)
}

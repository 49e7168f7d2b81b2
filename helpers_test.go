package walletsdk

import (
	"context"
	"math/big"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	"github.com/stretchr/testify/require"

	"github.com/subtext-wallet/go-sdk/store/inmemorystore"
	"github.com/subtext-wallet/go-sdk/types"
)

// Alice's well-known development address under the generic prefix.
const testRecipient = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"

const (
	relayEndpoint    = "wss://paseo.rpc.amforc.com"
	assetHubEndpoint = "wss://asset-hub-paseo.dotters.network"
	hydraEndpoint    = "wss://paseo.rpc.hydration.cloud"
)

type submittedTransfer struct {
	recipient []byte
	assetID   *uint32
	amount    *big.Int
}

type fakeConn struct {
	endpoint string

	nativeBalance  *big.Int
	nativeErr      error
	assetBalances  map[uint32]*big.Int
	foreignBalance map[uint32]*big.Int
	foreignErr     error

	submitHash string
	submitErr  error

	submissions []submittedTransfer
	reserves    []types.ReserveTransfer
	closed      bool
}

func (f *fakeConn) NativeBalance(_ context.Context, _ []byte) (*big.Int, error) {
	if f.nativeErr != nil {
		return nil, f.nativeErr
	}
	if f.nativeBalance == nil {
		return big.NewInt(0), nil
	}
	return f.nativeBalance, nil
}

func (f *fakeConn) AssetBalance(_ context.Context, assetID uint32, _ []byte) (*big.Int, error) {
	if balance, ok := f.assetBalances[assetID]; ok {
		return balance, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeConn) ForeignBalance(_ context.Context, _ []byte, currencyID uint32) (*big.Int, error) {
	if f.foreignErr != nil {
		return nil, f.foreignErr
	}
	if balance, ok := f.foreignBalance[currencyID]; ok {
		return balance, nil
	}
	return big.NewInt(0), nil
}

func (f *fakeConn) SubmitNativeTransfer(
	_ context.Context, _ signature.KeyringPair, recipient []byte, amount *big.Int,
) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submissions = append(f.submissions, submittedTransfer{recipient: recipient, amount: amount})
	return f.submitHash, nil
}

func (f *fakeConn) SubmitAssetTransfer(
	_ context.Context, _ signature.KeyringPair, assetID uint32, recipient []byte, amount *big.Int,
) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submissions = append(f.submissions, submittedTransfer{recipient: recipient, assetID: &assetID, amount: amount})
	return f.submitHash, nil
}

func (f *fakeConn) ReserveTransferAssets(
	_ context.Context, _ signature.KeyringPair, transfer types.ReserveTransfer,
) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.reserves = append(f.reserves, transfer)
	return f.submitHash, nil
}

func (f *fakeConn) Close() { f.closed = true }

type fakeDialer struct {
	conns    map[string]*fakeConn
	dialErrs map[string]error
}

func (d *fakeDialer) Dial(_ context.Context, endpoint string) (types.ChainConn, error) {
	if err, ok := d.dialErrs[endpoint]; ok {
		return nil, err
	}
	conn, ok := d.conns[endpoint]
	if !ok {
		conn = &fakeConn{endpoint: endpoint}
		if d.conns == nil {
			d.conns = make(map[string]*fakeConn)
		}
		d.conns[endpoint] = conn
	}
	return conn, nil
}

func newTestClient(t *testing.T, dialer *fakeDialer) (WalletClient, *types.WalletRecord) {
	t.Helper()

	client, err := New(inmemorystore.NewWalletStore(), WithChainDialer(dialer))
	require.NoError(t, err)
	t.Cleanup(client.Close)

	record, created, err := client.CreateWallet(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, created)

	return client, record
}

package chain

import (
	"errors"
	"testing"

	ctypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/require"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
)

const testTxHash = "0xabc123"

func feedStatuses(statuses ...ctypes.ExtrinsicStatus) (<-chan ctypes.ExtrinsicStatus, <-chan error) {
	statusCh := make(chan ctypes.ExtrinsicStatus, len(statuses))
	for _, status := range statuses {
		statusCh <- status
	}
	errCh := make(chan error)
	return statusCh, errCh
}

func noFailure(ctypes.Hash) error { return nil }

func TestTrackExtrinsicFinalized(t *testing.T) {
	statusCh, errCh := feedStatuses(
		ctypes.ExtrinsicStatus{IsInBlock: true, AsInBlock: ctypes.NewHash([]byte{1})},
		ctypes.ExtrinsicStatus{IsFinalized: true, AsFinalized: ctypes.NewHash([]byte{2})},
	)

	hash, err := trackExtrinsic(statusCh, errCh, testTxHash, noFailure)
	require.NoError(t, err)
	require.Equal(t, testTxHash, hash)
}

func TestTrackExtrinsicDispatchFailure(t *testing.T) {
	statusCh, errCh := feedStatuses(
		ctypes.ExtrinsicStatus{IsFinalized: true, AsFinalized: ctypes.NewHash([]byte{2})},
	)

	dispatchErr := sdkerr.New(sdkerr.KindDispatchFailure, "Balances.InsufficientBalance: balance too low")
	_, err := trackExtrinsic(statusCh, errCh, testTxHash, func(ctypes.Hash) error {
		return dispatchErr
	})
	require.Error(t, err)
	require.Equal(t, sdkerr.KindDispatchFailure, sdkerr.KindOf(err))
	require.Contains(t, err.Error(), "Balances.InsufficientBalance")
}

func TestTrackExtrinsicInBlockNotTerminal(t *testing.T) {
	statusCh := make(chan ctypes.ExtrinsicStatus, 2)
	statusCh <- ctypes.ExtrinsicStatus{IsInBlock: true, AsInBlock: ctypes.NewHash([]byte{1})}
	close(statusCh)
	errCh := make(chan error)

	_, err := trackExtrinsic(statusCh, errCh, testTxHash, noFailure)
	require.Error(t, err)
	require.Equal(t, sdkerr.KindUnknown, sdkerr.KindOf(err))
}

func TestTrackExtrinsicDropped(t *testing.T) {
	statusCh, errCh := feedStatuses(ctypes.ExtrinsicStatus{IsDropped: true})

	_, err := trackExtrinsic(statusCh, errCh, testTxHash, noFailure)
	require.Error(t, err)
	require.Equal(t, sdkerr.KindDispatchFailure, sdkerr.KindOf(err))
}

func TestTrackExtrinsicStreamError(t *testing.T) {
	statusCh := make(chan ctypes.ExtrinsicStatus)
	errCh := make(chan error, 1)
	errCh <- errors.New("connection reset")

	_, err := trackExtrinsic(statusCh, errCh, testTxHash, noFailure)
	require.Error(t, err)
	require.Equal(t, sdkerr.KindUnknown, sdkerr.KindOf(err))
	require.Contains(t, err.Error(), "connection reset")
}

func TestDescribeModuleErrorWithoutV14Metadata(t *testing.T) {
	conn := &Conn{meta: &ctypes.Metadata{}}

	msg := conn.describeModuleError(ctypes.ModuleError{Index: 5, Error: [4]ctypes.U8{2}})
	require.Equal(t, "module error pallet=5 error=2", msg)
}

func TestTrackExtrinsicClosedErrStream(t *testing.T) {
	statusCh := make(chan ctypes.ExtrinsicStatus, 1)
	statusCh <- ctypes.ExtrinsicStatus{IsFinalized: true, AsFinalized: ctypes.NewHash([]byte{2})}
	errCh := make(chan error)
	close(errCh)

	hash, err := trackExtrinsic(statusCh, errCh, testTxHash, noFailure)
	require.NoError(t, err)
	require.Equal(t, testTxHash, hash)
}

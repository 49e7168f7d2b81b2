// Package chain wraps the Substrate RPC client behind the connection and
// submission primitives the wallet operations need. Connections are opened
// per operation and torn down when the operation completes; nothing is
// pooled across calls.
package chain

import (
	"context"
	"fmt"
	"time"

	gsrpc "github.com/centrifuge/go-substrate-rpc-client/v4"
	log "github.com/sirupsen/logrus"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/types"
)

// DefaultConnectTimeout bounds the whole connection attempt. The provider
// retries socket-level reconnects on its own below this budget.
const DefaultConnectTimeout = 15 * time.Second

type dialResult struct {
	conn *Conn
	err  error
}

// Manager dials chain endpoints with a connect timeout.
type Manager struct {
	connectTimeout time.Duration
}

func NewManager(connectTimeout time.Duration) *Manager {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	return &Manager{connectTimeout: connectTimeout}
}

// Dial opens a connection to the endpoint, racing the attempt against the
// connect timeout. A late dial is closed in the background rather than
// leaked.
func (m *Manager) Dial(ctx context.Context, endpoint string) (types.ChainConn, error) {
	ch := make(chan dialResult, 1)
	go func() {
		conn, err := open(endpoint)
		ch <- dialResult{conn: conn, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %s", endpoint, res.err)
		}
		return res.conn, nil
	case <-ctx.Done():
		go closeLateDial(ch)
		return nil, sdkerr.Wrap(
			sdkerr.KindConnectionTimeout,
			fmt.Sprintf("connection to %s aborted", endpoint), ctx.Err(),
		)
	case <-time.After(m.connectTimeout):
		go closeLateDial(ch)
		return nil, sdkerr.Newf(sdkerr.KindConnectionTimeout, "connection timeout to %s", endpoint)
	}
}

// WithConnection runs fn against a fresh connection and guarantees release
// on every exit path.
func (m *Manager) WithConnection(ctx context.Context, endpoint string, fn func(types.ChainConn) error) error {
	conn, err := m.Dial(ctx, endpoint)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func closeLateDial(ch <-chan dialResult) {
	if res := <-ch; res.conn != nil {
		log.Debugf("closing connection that completed after timeout")
		res.conn.Close()
	}
}

func open(endpoint string) (*Conn, error) {
	api, err := gsrpc.NewSubstrateAPI(endpoint)
	if err != nil {
		return nil, err
	}
	meta, err := api.RPC.State.GetMetadataLatest()
	if err != nil {
		api.Client.Close()
		return nil, fmt.Errorf("failed to fetch metadata: %s", err)
	}
	log.Debugf("connected to %s", endpoint)
	return &Conn{endpoint: endpoint, api: api, meta: meta}, nil
}

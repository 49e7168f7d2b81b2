package chain

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// EndpointHealth reports the outcome of a websocket handshake against a
// chain RPC endpoint.
type EndpointHealth struct {
	Endpoint  string
	Reachable bool
	Latency   time.Duration
	Err       string
}

// ProbeEndpoint performs a bare websocket handshake against the endpoint
// without bringing up a full RPC client. It is a cheap liveness signal for
// diagnostics, not a substitute for dialing.
func (m *Manager) ProbeEndpoint(ctx context.Context, endpoint string) EndpointHealth {
	ctx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()

	start := time.Now()
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		log.Debugf("endpoint %s unreachable: %s", endpoint, err)
		return EndpointHealth{Endpoint: endpoint, Err: err.Error()}
	}
	latency := time.Since(start)
	conn.Close()
	return EndpointHealth{Endpoint: endpoint, Reachable: true, Latency: latency}
}

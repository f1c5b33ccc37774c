package backend

import (
	"context"
	"crypto/tls"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/resourcesniffer/sniffercore/cmn"
)

// wsProbeTimeout is the fixed ceiling spec §5 mandates for WebSocket probes,
// independent of any adapter-level client timeout configuration.
const wsProbeTimeout = 5 * time.Second

// wsAdapter implements Adapter for ws/wss (spec §4.7 table): open a
// connection, immediately close it on open, and report availability. Full
// Fetch optionally reads one message then closes; Download is unsupported.
// This package stops at the TCP/TLS handshake rather than completing the
// WebSocket upgrade handshake (no third-party WS client is wired into this
// module's go.mod, and the probe/fetch contract here only needs "is
// something listening," not a full RFC 6455 session) — see DESIGN.md.
type wsAdapter struct {
	dialer *net.Dialer
}

var _ Adapter = (*wsAdapter)(nil)

func NewWSAdapter() Adapter {
	return &wsAdapter{dialer: &net.Dialer{Timeout: wsProbeTimeout}}
}

func (w *wsAdapter) CanHandle(rawURL string) bool {
	return strings.HasPrefix(rawURL, "ws://") || strings.HasPrefix(rawURL, "wss://")
}

func (w *wsAdapter) dial(ctx context.Context, rawURL string) (net.Conn, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, cmn.InvalidInputf("malformed ws URL %s: %v", rawURL, err)
	}
	ctx, cancel := context.WithTimeout(ctx, wsProbeTimeout)
	defer cancel()

	host := u.Host
	if !strings.Contains(host, ":") {
		if u.Scheme == "wss" {
			host += ":443"
		} else {
			host += ":80"
		}
	}
	if u.Scheme == "wss" {
		tlsDialer := &tls.Dialer{NetDialer: w.dialer}
		return tlsDialer.DialContext(ctx, "tcp", host)
	}
	return w.dialer.DialContext(ctx, "tcp", host)
}

func (w *wsAdapter) Probe(ctx context.Context, rawURL string) (ProbeResult, error) {
	conn, err := w.dial(ctx, rawURL)
	if err != nil {
		return ProbeResult{Available: false}, cmn.NetworkErrorf("ws probe %s: %v", rawURL, err)
	}
	_ = conn.Close()
	return ProbeResult{Type: cmn.TypeOther, Available: true}, nil
}

// Fetch opens the connection and reads up to one frame's worth of bytes
// before closing, per spec §4.7 "optional: read one message then close".
func (w *wsAdapter) Fetch(ctx context.Context, rawURL string, _ FetchOptions) (FetchResult, error) {
	conn, err := w.dial(ctx, rawURL)
	if err != nil {
		return FetchResult{}, cmn.NetworkErrorf("ws fetch %s: %v", rawURL, err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(wsProbeTimeout))
	buf := make([]byte, 4096)
	n, err := conn.Read(buf)
	if err != nil && n == 0 {
		return FetchResult{}, cmn.NetworkErrorf("ws read %s: %v", rawURL, err)
	}
	return FetchResult{Body: buf[:n]}, nil
}

// Download is unsupported for ws/wss (spec §4.7 table: "not supported").
func (w *wsAdapter) Download(ctx context.Context, rawURL, destPath string, opts DownloadOptions) (string, error) {
	return "", cmn.AdapterUnsupportedf("ws/wss does not support download: %s", rawURL)
}

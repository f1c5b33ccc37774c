package backend_test

import (
	"context"
	"net"
	"testing"

	"github.com/resourcesniffer/sniffercore/backend"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

func TestWSAdapterCanHandle(t *testing.T) {
	a := backend.NewWSAdapter()
	tassert.Errorf(t, a.CanHandle("ws://example.com"), "expected CanHandle true for ws://")
	tassert.Errorf(t, a.CanHandle("wss://example.com"), "expected CanHandle true for wss://")
	tassert.Errorf(t, !a.CanHandle("https://example.com"), "expected CanHandle false for https://")
}

func TestWSAdapterProbeSucceedsAgainstListeningPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	tassert.CheckFatal(t, err)
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			c.Close()
		}
	}()

	a := backend.NewWSAdapter()
	res, err := a.Probe(context.Background(), "ws://"+ln.Addr().String())
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, res.Available, "expected probe to report available against a listening port")
}

func TestWSAdapterProbeFailsAgainstClosedPort(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	tassert.CheckFatal(t, err)
	addr := ln.Addr().String()
	ln.Close()

	a := backend.NewWSAdapter()
	_, err = a.Probe(context.Background(), "ws://"+addr)
	tassert.Errorf(t, err != nil, "expected probe to fail when nothing is listening")
}

func TestWSAdapterDownloadUnsupported(t *testing.T) {
	a := backend.NewWSAdapter()
	_, err := a.Download(context.Background(), "ws://example.com", "", backend.DownloadOptions{})
	tassert.Errorf(t, err != nil, "expected Download to be unsupported for ws")
}

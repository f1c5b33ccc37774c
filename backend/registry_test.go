package backend_test

import (
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/resourcesniffer/sniffercore/backend"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

type noopDoer struct{}

func (noopDoer) Do(*fasthttp.Request, *fasthttp.Response) error { return nil }

func TestRegistryDispatchesBySchemeCaseInsensitively(t *testing.T) {
	reg := backend.NewRegistry(noopDoer{})
	a, err := reg.For("HTTPS://example.com/a.jpg")
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, a != nil, "expected a resolved adapter for https")
}

func TestRegistryUnknownSchemeReturnsAdapterUnsupported(t *testing.T) {
	reg := backend.NewRegistry(noopDoer{})
	_, err := reg.For("ftp://example.com/a.jpg")
	tassert.Fatalf(t, err != nil, "expected an error for an unregistered scheme")
	tassert.Errorf(t, cmn.Is(err, cmn.ErrAdapterUnsupported), "expected ErrAdapterUnsupported, got %v", err)
}

func TestRegistryDataAndBlobAndWSAreWired(t *testing.T) {
	reg := backend.NewRegistry(noopDoer{})
	for _, scheme := range []string{"data:text/plain,hi", "blob:https://example.com/1234", "ws://example.com/socket"} {
		_, err := reg.For(scheme)
		tassert.Errorf(t, err == nil, "expected scheme %q to resolve to a registered adapter, got %v", scheme, err)
	}
}

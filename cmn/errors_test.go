package cmn_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

func TestErrorConstructorsWrapSentinels(t *testing.T) {
	tassert.Errorf(t, cmn.Is(cmn.InvalidInputf("x"), cmn.ErrInvalidInput), "expected Is to match wrapped ErrInvalidInput")
	tassert.Errorf(t, cmn.Is(cmn.NetworkErrorf("x"), cmn.ErrNetwork), "expected Is to match wrapped ErrNetwork")
	tassert.Errorf(t, cmn.Is(cmn.AdapterUnsupportedf("x"), cmn.ErrAdapterUnsupported), "expected Is to match wrapped ErrAdapterUnsupported")
	tassert.Errorf(t, cmn.Is(cmn.StorageErrorf("x"), cmn.ErrStorage), "expected Is to match wrapped ErrStorage")
	tassert.Errorf(t, cmn.Is(cmn.WorkerErrorf("x"), cmn.ErrWorker), "expected Is to match wrapped ErrWorker")
}

func TestErrorMessagesIncludeFormattedContext(t *testing.T) {
	err := cmn.AdapterUnsupportedf("scheme %q", "ftp")
	tassert.Errorf(t, err.Error() != "", "expected a non-empty error message")
}

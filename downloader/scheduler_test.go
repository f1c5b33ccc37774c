package downloader_test

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/resourcesniffer/sniffercore/backend"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/downloader"
	"github.com/resourcesniffer/sniffercore/netspeed"
	"github.com/resourcesniffer/sniffercore/stats"
)

// unusedDoer satisfies backend.HTTPDoer for constructing a Registry whose
// http/https entries are immediately overridden by a fakeAdapter in tests;
// it is never actually invoked.
type unusedDoer struct{}

func (unusedDoer) Do(*fasthttp.Request, *fasthttp.Response) error { return nil }

// fakeAdapter is a minimal backend.Adapter test double: Download succeeds
// immediately without touching the network or disk, optionally blocking
// until ctx is cancelled so tests can exercise Cancel/Pause mid-transfer.
type fakeAdapter struct {
	blockUntilCancel bool
	failTimes        int
}

func (f *fakeAdapter) CanHandle(string) bool { return true }
func (f *fakeAdapter) Probe(context.Context, string) (backend.ProbeResult, error) {
	return backend.ProbeResult{}, nil
}
func (f *fakeAdapter) Fetch(context.Context, string, backend.FetchOptions) (backend.FetchResult, error) {
	return backend.FetchResult{}, nil
}
func (f *fakeAdapter) Download(ctx context.Context, rawURL, destPath string, opts backend.DownloadOptions) (string, error) {
	if f.failTimes > 0 {
		f.failTimes--
		return "", cmn.NetworkErrorf("simulated failure")
	}
	if opts.OnChunk != nil {
		_ = opts.OnChunk(1024)
	}
	if f.blockUntilCancel {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "", nil
}

func newTestScheduler(adapter backend.Adapter) *downloader.Scheduler {
	reg := backend.NewRegistry(unusedDoer{})
	reg.Register("http", adapter)
	reg.Register("https", adapter)
	speed := netspeed.New()
	resumable := downloader.NewResumableStore(cmn.NewMemKV(), 0)
	return downloader.NewScheduler(reg, speed, resumable, stats.NewNopSink())
}

func waitUntil(pred func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if pred() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return pred()
}

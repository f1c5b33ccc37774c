package downloader_test

import (
	"testing"
	"time"

	"github.com/resourcesniffer/sniffercore/devtools/tassert"
	"github.com/resourcesniffer/sniffercore/downloader"
)

func TestLimiterDisabledReturnsImmediately(t *testing.T) {
	l := downloader.NewLimiter(0)
	start := time.Now()
	l.Wait(10_000_000)
	tassert.Errorf(t, time.Since(start) < 50*time.Millisecond, "expected a disabled limiter to never block")
}

func TestLimiterAllowsBurstWithinCapacity(t *testing.T) {
	l := downloader.NewLimiter(1024) // 1MB/s bucket
	start := time.Now()
	l.Wait(1024 * 1024) // one second's worth of burst capacity, should not block
	tassert.Errorf(t, time.Since(start) < 200*time.Millisecond, "expected the initial full bucket to absorb one second's burst without blocking")
}

func TestLimiterThrottlesBeyondCapacity(t *testing.T) {
	l := downloader.NewLimiter(50) // 50 KB/s, tiny bucket
	start := time.Now()
	l.Wait(50 * 1024 * 2) // twice the bucket, must wait roughly another second
	tassert.Errorf(t, time.Since(start) > 500*time.Millisecond, "expected exceeding capacity to block for a noticeable amount of time")
}

func TestLimiterSetRateKBsCanDisable(t *testing.T) {
	l := downloader.NewLimiter(10)
	l.SetRateKBs(0)
	start := time.Now()
	l.Wait(10_000_000)
	tassert.Errorf(t, time.Since(start) < 50*time.Millisecond, "expected SetRateKBs(0) to disable limiting")
}

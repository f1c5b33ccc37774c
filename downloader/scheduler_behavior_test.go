package downloader_test

import (
	"testing"
	"time"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
	"github.com/resourcesniffer/sniffercore/downloader"
)

func TestEnqueueRejectsDuplicateFingerprintWhileInFlight(t *testing.T) {
	sched := newTestScheduler(&fakeAdapter{blockUntilCancel: true})
	r := &cluster.Resource{URL: "https://example.com/a.jpg", Type: cmn.TypeImage}

	first, ok := sched.Enqueue(r, downloader.Options{})
	tassert.Fatalf(t, ok, "expected the first enqueue to succeed")

	waitUntil(func() bool {
		for _, d := range sched.QueueSnapshot() {
			if d.ID == first.ID && d.State == downloader.StateInProgress {
				return true
			}
		}
		return false
	}, time.Second)

	_, ok = sched.Enqueue(r, downloader.Options{})
	tassert.Errorf(t, !ok, "expected a duplicate fingerprint enqueue to be rejected while the first is in flight")

	sched.Cancel(first.ID)
}

func TestEnqueueThenCancelWhileQueued(t *testing.T) {
	sched := newTestScheduler(&fakeAdapter{blockUntilCancel: true})
	running, ok := sched.Enqueue(&cluster.Resource{URL: "https://example.com/running.jpg", Type: cmn.TypeImage}, downloader.Options{})
	tassert.Fatalf(t, ok, "expected enqueue to succeed")

	queued, ok := sched.Enqueue(&cluster.Resource{URL: "https://example.com/queued.jpg", Type: cmn.TypeImage}, downloader.Options{})
	tassert.Fatalf(t, ok, "expected second enqueue to succeed")

	tassert.Errorf(t, sched.Cancel(queued.ID), "expected cancelling a still-queued download to succeed")
	tassert.Errorf(t, !sched.Cancel(queued.ID), "expected a second cancel of the same id to report false")

	sched.Cancel(running.ID)
}

func TestDownloadCompletesAndRecordsHistory(t *testing.T) {
	sched := newTestScheduler(&fakeAdapter{})
	r := &cluster.Resource{URL: "https://example.com/done.jpg", Type: cmn.TypeImage}
	d, ok := sched.Enqueue(r, downloader.Options{})
	tassert.Fatalf(t, ok, "expected enqueue to succeed")

	completed := waitUntil(func() bool {
		for _, h := range sched.History() {
			if h.ID == d.ID && h.State == downloader.StateComplete {
				return true
			}
		}
		return false
	}, 2*time.Second)
	tassert.Errorf(t, completed, "expected the download to reach the complete state in history")
}

func TestDownloadRetriesThenSucceeds(t *testing.T) {
	sched := newTestScheduler(&fakeAdapter{failTimes: 1})
	r := &cluster.Resource{URL: "https://example.com/flaky.jpg", Type: cmn.TypeImage}
	d, ok := sched.Enqueue(r, downloader.Options{})
	tassert.Fatalf(t, ok, "expected enqueue to succeed")

	completed := waitUntil(func() bool {
		for _, h := range sched.History() {
			if h.ID == d.ID && h.State == downloader.StateComplete {
				return true
			}
		}
		return false
	}, 3*time.Second)
	tassert.Errorf(t, completed, "expected a download that fails once to retry and eventually complete")
}

func TestUpdateSettingsChangesSpeedLimit(t *testing.T) {
	sched := newTestScheduler(&fakeAdapter{})
	sched.UpdateSettings(100)
	sched.UpdateSettings(0)
}

func TestResumeUnknownIDFails(t *testing.T) {
	sched := newTestScheduler(&fakeAdapter{})
	_, ok := sched.Resume("does-not-exist")
	tassert.Errorf(t, !ok, "expected resuming an unknown download id to fail")
}

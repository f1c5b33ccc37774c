package downloader_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
	"github.com/resourcesniffer/sniffercore/downloader"
)

func TestPriorityFavorsVideoOverDocument(t *testing.T) {
	video := &downloader.Download{Type: cmn.TypeVideo, TotalBytes: 1_000_000}
	doc := &downloader.Download{Type: cmn.TypeDocument, TotalBytes: 1_000_000}
	tassert.Errorf(t, downloader.Priority(video, 2.0) > downloader.Priority(doc, 2.0), "expected video to rank above document at equal size and network speed")
}

func TestPriorityFavorsSmallerFilesOnSlowNetwork(t *testing.T) {
	small := &downloader.Download{Type: cmn.TypeImage, TotalBytes: 100_000}
	large := &downloader.Download{Type: cmn.TypeImage, TotalBytes: 50_000_000}
	tassert.Errorf(t, downloader.Priority(small, 1.0) > downloader.Priority(large, 1.0), "expected a small file to outrank a large one at equal type/network")
}

func TestPriorityRewardsFastNetwork(t *testing.T) {
	d := &downloader.Download{Type: cmn.TypeImage, TotalBytes: 1_000_000}
	tassert.Errorf(t, downloader.Priority(d, 10.0) > downloader.Priority(d, 0.5), "expected a faster network estimate to raise priority")
}

func TestQueuePopsHighestPriorityFirst(t *testing.T) {
	q := downloader.NewQueue()
	low := &downloader.Download{ID: "low"}
	high := &downloader.Download{ID: "high"}
	q.Enqueue(low, 1.0)
	q.Enqueue(high, 5.0)

	got := q.Pop()
	tassert.Fatalf(t, got != nil, "expected a download to be popped")
	tassert.Errorf(t, got.ID == "high", "expected the higher-priority item to pop first, got %s", got.ID)
}

func TestQueueFIFOTiesAtEqualPriority(t *testing.T) {
	q := downloader.NewQueue()
	first := &downloader.Download{ID: "first"}
	second := &downloader.Download{ID: "second"}
	q.Enqueue(first, 2.0)
	q.Enqueue(second, 2.0)

	got := q.Pop()
	tassert.Errorf(t, got.ID == "first", "expected FIFO tie-break to favor the earlier insertion, got %s", got.ID)
}

func TestQueueRemove(t *testing.T) {
	q := downloader.NewQueue()
	d := &downloader.Download{ID: "x"}
	q.Enqueue(d, 1.0)
	tassert.Errorf(t, q.Remove("x"), "expected Remove to report true for a present item")
	tassert.Errorf(t, q.Len() == 0, "expected queue empty after Remove")
	tassert.Errorf(t, !q.Remove("x"), "expected a second Remove of the same id to report false")
}

func TestQueueItemsDoesNotMutateQueue(t *testing.T) {
	q := downloader.NewQueue()
	q.Enqueue(&downloader.Download{ID: "a"}, 1.0)
	q.Enqueue(&downloader.Download{ID: "b"}, 2.0)

	snapshot := q.Items()
	tassert.Errorf(t, len(snapshot) == 2, "expected snapshot of 2 items")
	tassert.Errorf(t, q.Len() == 2, "expected Items to leave the queue untouched")
	tassert.Errorf(t, snapshot[0].ID == "b", "expected snapshot ordered by priority desc, got %s first", snapshot[0].ID)
}

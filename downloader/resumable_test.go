package downloader_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
	"github.com/resourcesniffer/sniffercore/downloader"
)

func TestResumableStorePutAndAll(t *testing.T) {
	kv := cmn.NewMemKV()
	rs := downloader.NewResumableStore(kv, 0)

	tassert.CheckFatal(t, rs.Put(downloader.ResumableEntry{DownloadID: "a", URL: "https://example.com/a"}))
	tassert.CheckFatal(t, rs.Put(downloader.ResumableEntry{DownloadID: "b", URL: "https://example.com/b"}))

	entries, err := rs.All()
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(entries) == 2, "expected 2 persisted entries, got %d", len(entries))
}

func TestResumableStorePutReplacesExisting(t *testing.T) {
	kv := cmn.NewMemKV()
	rs := downloader.NewResumableStore(kv, 0)

	tassert.CheckFatal(t, rs.Put(downloader.ResumableEntry{DownloadID: "a", BytesReceived: 10}))
	tassert.CheckFatal(t, rs.Put(downloader.ResumableEntry{DownloadID: "a", BytesReceived: 99}))

	entries, err := rs.All()
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(entries) == 1, "expected replace-in-place not append, got %d entries", len(entries))
	tassert.Errorf(t, entries[0].BytesReceived == 99, "expected the latest put to win, got %d", entries[0].BytesReceived)
}

func TestResumableStorePurge(t *testing.T) {
	kv := cmn.NewMemKV()
	rs := downloader.NewResumableStore(kv, 0)
	tassert.CheckFatal(t, rs.Put(downloader.ResumableEntry{DownloadID: "a"}))
	tassert.CheckFatal(t, rs.Purge("a"))

	entries, err := rs.All()
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(entries) == 0, "expected no entries after purge")
}

func TestResumableStoreCapsAtMaxEntriesDroppingOldest(t *testing.T) {
	kv := cmn.NewMemKV()
	rs := downloader.NewResumableStore(kv, 2)

	tassert.CheckFatal(t, rs.Put(downloader.ResumableEntry{DownloadID: "a"}))
	tassert.CheckFatal(t, rs.Put(downloader.ResumableEntry{DownloadID: "b"}))
	tassert.CheckFatal(t, rs.Put(downloader.ResumableEntry{DownloadID: "c"}))

	entries, err := rs.All()
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(entries) == 2, "expected the store capped at 2 entries, got %d", len(entries))
	for _, e := range entries {
		tassert.Errorf(t, e.DownloadID != "a", "expected the oldest entry to be dropped first")
	}
}

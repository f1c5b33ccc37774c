package downloader

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/resourcesniffer/sniffercore/cmn"
)

// ResumableEntry is the persisted shape spec §4.5 names for paused/
// interrupted downloads: {url, filename, total_bytes, bytes_received, mime,
// timestamp}.
type ResumableEntry struct {
	DownloadID    string `json:"download_id"`
	URL           string `json:"url"`
	Filename      string `json:"filename"`
	TotalBytes    int64  `json:"total_bytes"`
	BytesReceived int64  `json:"bytes_received"`
	Mime          string `json:"mime"`
	Timestamp     int64  `json:"timestamp"`
}

// ResumableStore persists ResumableEntry records to a cmn.KVStore under one
// key (spec §6 "resumableDownloads"), capped at maxEntries with oldest
// dropped first (spec §4.5: "cap per-user size not specified ... SHOULD cap
// at 100 entries and drop oldest").
type ResumableStore struct {
	kv         cmn.KVStore
	maxEntries int
}

func NewResumableStore(kv cmn.KVStore, maxEntries int) *ResumableStore {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	return &ResumableStore{kv: kv, maxEntries: maxEntries}
}

func (rs *ResumableStore) load() ([]ResumableEntry, error) {
	raw, ok, err := rs.kv.Get(cmn.KeyResumableDownloads)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var entries []ResumableEntry
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(raw, &entries); err != nil {
		return nil, cmn.StorageErrorf("decode resumable store: %v", err)
	}
	return entries, nil
}

func (rs *ResumableStore) save(entries []ResumableEntry) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(entries)
	if err != nil {
		return cmn.StorageErrorf("encode resumable store: %v", err)
	}
	return rs.kv.Set(cmn.KeyResumableDownloads, data)
}

// Put inserts or replaces the entry for e.DownloadID, dropping the oldest
// entry first if the store is at capacity.
func (rs *ResumableStore) Put(e ResumableEntry) error {
	entries, err := rs.load()
	if err != nil {
		return err
	}
	for i, existing := range entries {
		if existing.DownloadID == e.DownloadID {
			entries[i] = e
			return rs.save(entries)
		}
	}
	if len(entries) >= rs.maxEntries {
		entries = entries[1:]
	}
	entries = append(entries, e)
	return rs.save(entries)
}

// Purge removes id's entry (spec §4.5: "on completion the original record
// is purged from the resumable store").
func (rs *ResumableStore) Purge(id string) error {
	entries, err := rs.load()
	if err != nil {
		return err
	}
	out := entries[:0]
	for _, e := range entries {
		if e.DownloadID != id {
			out = append(out, e)
		}
	}
	return rs.save(out)
}

// All returns every persisted resumable entry.
func (rs *ResumableStore) All() ([]ResumableEntry, error) {
	return rs.load()
}

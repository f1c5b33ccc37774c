package cluster_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

func TestMergeFillsMissingFieldsWithoutOverwriting(t *testing.T) {
	existing := &cluster.Resource{URL: "https://example.com/a.jpg", Filename: "a.jpg"}
	newer := &cluster.Resource{URL: "https://example.com/a.jpg", ContentType: "image/jpeg", Filename: "other.jpg"}

	cluster.Merge(existing, newer)

	tassert.Errorf(t, existing.ContentType == "image/jpeg", "expected empty content type to be filled from newer")
	tassert.Errorf(t, existing.Filename == "a.jpg", "expected non-empty filename to be preserved, not overwritten")
}

func TestMergePrefersDimsFromHigherQualityScoreWinner(t *testing.T) {
	existing := &cluster.Resource{URL: "https://example.com/a.jpg", Quality: cmn.QualityLD}
	existing.SetDims(100, 100)
	newer := &cluster.Resource{URL: "https://example.com/a.jpg", Quality: cmn.QualityHD}
	newer.SetDims(4000, 3000)

	cluster.Merge(existing, newer)

	tassert.Errorf(t, existing.Width == 4000 && existing.Height == 3000, "expected dims from the higher-quality-score side to win, got %dx%d", existing.Width, existing.Height)
}

func TestMergePrefersDOMSource(t *testing.T) {
	existing := &cluster.Resource{URL: "https://example.com/a.jpg", Source: cmn.SourceNetwork}
	newer := &cluster.Resource{URL: "https://example.com/a.jpg", Source: cmn.SourceDOM}

	cluster.Merge(existing, newer)

	tassert.Errorf(t, existing.Source == cmn.SourceDOM, "expected dom provenance to be preferred once seen")
}

func TestMergeSetsStreamTypeWhenNewerIsStream(t *testing.T) {
	existing := &cluster.Resource{URL: "https://example.com/a.m3u8"}
	newer := &cluster.Resource{URL: "https://example.com/a.m3u8", IsStream: true, StreamType: cmn.StreamHLS}

	cluster.Merge(existing, newer)

	tassert.Errorf(t, existing.IsStream, "expected IsStream to be set")
	tassert.Errorf(t, existing.StreamType == cmn.StreamHLS, "expected stream type hls")
}

func TestMergeRecomputesFingerprintWhenContentHashArrives(t *testing.T) {
	existing := &cluster.Resource{URL: "https://example.com/a.jpg"}
	existing.EnsureFingerprint()
	before := existing.Fingerprint

	newer := &cluster.Resource{URL: "https://example.com/a.jpg", ContentHash: "deadbeef"}
	cluster.Merge(existing, newer)

	tassert.Errorf(t, existing.Fingerprint == "", "expected fingerprint cleared to force recompute, got %q (was %q)", existing.Fingerprint, before)
	tassert.Errorf(t, existing.ContentHash == "deadbeef", "expected content hash copied from newer")
}

func TestMergeAdoptsScoreOnlyFromWinner(t *testing.T) {
	existing := &cluster.Resource{URL: "https://example.com/a.jpg", Quality: cmn.QualityHD}
	existing.SetScore(90)
	newer := &cluster.Resource{URL: "https://example.com/a.jpg", Quality: cmn.QualityLD}
	newer.SetScore(5)

	cluster.Merge(existing, newer)

	tassert.Errorf(t, existing.Score == 90, "expected score from the lower-quality-score loser to not overwrite the winner's score, got %d", existing.Score)
}

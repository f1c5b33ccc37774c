package cluster

import "github.com/resourcesniffer/sniffercore/cmn"

// Merge implements spec §4.4's merge rule: copy fields the newer record
// carries that the existing one lacks; never overwrite a present value with
// an empty/null one; when both are present and differ, prefer the value
// from whichever record has the higher QualityScore. existing is mutated in
// place; newer is read-only.
func Merge(existing, newer *Resource) {
	winner := existing
	if QualityScore(newer) > QualityScore(existing) {
		winner = newer
	}

	if existing.ContentType == "" {
		existing.ContentType = newer.ContentType
	} else if winner == newer && newer.ContentType != "" {
		existing.ContentType = newer.ContentType
	}

	if !existing.HasDims() && newer.HasDims() {
		existing.SetDims(newer.Width, newer.Height)
	} else if existing.HasDims() && newer.HasDims() && winner == newer {
		existing.SetDims(newer.Width, newer.Height)
	}

	if !existing.HasSizeBytes() && newer.HasSizeBytes() {
		existing.SetSizeBytes(newer.SizeBytes)
	} else if existing.HasSizeBytes() && newer.HasSizeBytes() && winner == newer {
		existing.SetSizeBytes(newer.SizeBytes)
	}

	if existing.Quality == "" || existing.Quality == cmn.QualityUnknown {
		if newer.Quality != "" {
			existing.Quality = newer.Quality
		}
	} else if winner == newer && newer.Quality != "" {
		existing.Quality = newer.Quality
	}

	if existing.Filename == "" {
		existing.Filename = newer.Filename
	}

	if !existing.IsStream && newer.IsStream {
		existing.IsStream = true
		existing.StreamType = newer.StreamType
	}

	if existing.ContentHash == "" && newer.ContentHash != "" {
		existing.ContentHash = newer.ContentHash
		existing.Fingerprint = "" // identity input changed, force recompute
	}

	if existing.Source != cmn.SourceDOM && newer.Source == cmn.SourceDOM {
		// DOM-observed provenance is the most reliable source (spec §4.2
		// reliability_score weighting); prefer it once seen.
		existing.Source = newer.Source
	}

	if winner == newer && newer.Scored() {
		existing.SetScore(newer.Score)
		existing.ScoreDetails = newer.ScoreDetails
	}
}

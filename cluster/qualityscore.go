package cluster

import "github.com/resourcesniffer/sniffercore/cmn"

// QualityScore is the dedup-internal quality score (spec §4.3, explicitly
// "distinct from §4.2"): a single comparable number used to pick the
// surviving representative when two records collide, and reused by
// Merge (below) to decide which side of a per-field conflict wins. Keeping
// it in cluster (rather than duplicating it in the dedup package) avoids
// two divergent copies of "which record is better" logic.
func QualityScore(r *Resource) int {
	score := 50

	switch r.Quality {
	case cmn.QualityHD:
		score += 30
	case cmn.QualitySD:
		score += 15
	case cmn.QualityLD:
		score -= 10
	}

	if area := r.Area(); area > 0 {
		switch {
		case area >= 1_000_000:
			score += 20
		case area >= 250_000:
			score += 10
		}
	}

	if r.HasSizeBytes() && r.SizeBytes > 0 {
		switch r.Type {
		case cmn.TypeImage:
			if r.SizeBytes >= 500_000 {
				score += 10
			}
		case cmn.TypeVideo:
			if r.SizeBytes >= 5_000_000 {
				score += 10
			}
		}
	}

	if r.Source == cmn.SourceDOM {
		score += 10
	}

	score += int(r.Confidence * 10)

	return score
}

package analyzer

import (
	"strings"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

const baseScore = 50

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// QualityScore implements spec §4.2 quality_score. Distinct from
// cluster.QualityScore, which is the Deduplicator's own internal
// representative-selection score (spec §4.3 explicitly calls out the two as
// separate formulas).
func QualityScore(r *cluster.Resource) int {
	s := baseScore
	s += pixelBandPoints(r)
	s += sizeBandPoints(r)

	lower := strings.ToLower(r.URL + " " + r.Filename)
	if containsAny(lower, highQualityTokens) {
		s += 15
	} else if containsAny(lower, lowQualityTokens) {
		s -= 15
	}
	if cmn.IsCDNHost(r.URL) {
		s += 5
	}
	if cmn.ExtractPlatform(r.URL) != "" {
		s += 5
	}
	return clampScore(s)
}

var relevanceTokensPositive = []string{"content", "media", "assets", "uploads"}
var relevanceTokensNegative = []string{"ad", "banner", "promo", "sponsor"}

// RelevanceScore implements spec §4.2 relevance_score.
func RelevanceScore(r *cluster.Resource) int {
	s := baseScore
	switch r.Source {
	case cmn.SourceDOM:
		s += 15
	case cmn.SourceNetwork:
		s += 10
	case cmn.SourcePredicted:
		s -= 10
	}
	lower := strings.ToLower(r.URL)
	if containsAny(lower, relevanceTokensPositive) {
		s += 10
	}
	if containsAny(lower, relevanceTokensNegative) {
		s -= 15
	}
	if cmn.ExtractPlatform(r.URL) != "" {
		s += 10
	}
	return clampScore(s)
}

// ReliabilityScore implements spec §4.2 reliability_score.
func ReliabilityScore(r *cluster.Resource) int {
	s := baseScore
	switch r.Source {
	case cmn.SourceDOM:
		s += 20
	case cmn.SourceNetwork:
		s += 15
	case cmn.SourceCSS:
		s += 10
	case cmn.SourcePredicted:
		s -= 15
	}
	if cmn.IsCDNHost(r.URL) {
		s += 15
	}
	if cmn.ExtractPlatform(r.URL) != "" {
		s += 15
	}
	if r.HasSizeBytes() && r.SizeBytes > 0 {
		s += 10
	}
	return clampScore(s)
}

// OverallScore implements spec §4.2 overall_score, the stored Resource.Score.
func OverallScore(quality, relevance, reliability int) int {
	weighted := 0.4*float64(quality) + 0.3*float64(relevance) + 0.3*float64(reliability)
	return roundHalfAwayFromZero(weighted)
}

func roundHalfAwayFromZero(f float64) int {
	if f >= 0 {
		return int(f + 0.5)
	}
	return -int(-f + 0.5)
}

package analyzer

import (
	"github.com/resourcesniffer/sniffercore/cluster"
)

// Result is what the Analyzer hands back per record: the enriched record
// plus the synthesised high-resolution variants and informational
// related-resource patterns (spec §4.2), posted together as one
// "analysisComplete" event (spec §6 Worker protocol).
type Result struct {
	Record   *cluster.Resource
	Variants []*cluster.Resource
	Related  []string
}

// Analyze scores and enriches r in place on a clone, so the caller's copy
// (typically the Resource Graph's stored value) is never mutated by a
// worker directly, matching the single-writer rule (spec §5).
func Analyze(r *cluster.Resource) *Result {
	out := r.Clone()

	q := QualityScore(out)
	rel := RelevanceScore(out)
	rely := ReliabilityScore(out)

	out.Quality = DetermineQuality(out)
	out.SetScore(OverallScore(q, rel, rely))
	out.ScoreDetails = map[string]cluster.ScoreDetail{
		"quality_score":     {Score: q, Value: string(out.Quality)},
		"relevance_score":   {Score: rel, Value: string(out.Source)},
		"reliability_score": {Score: rely, Value: out.HasSizeBytes()},
	}

	return &Result{
		Record:   out,
		Variants: GenerateVariants(out),
		Related:  RelatedPatterns(out),
	}
}

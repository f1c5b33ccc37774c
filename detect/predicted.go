package detect

import (
	"regexp"
	"strings"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// predictedURLPattern finds quoted string literals anywhere in a page's raw
// HTML/JS that look like absolute media URLs — the kind of reference a
// client-side framework injects into a JSON blob or inline script rather
// than an attribute DOMExtractor would see directly.
var predictedURLPattern = regexp.MustCompile(`https?://[^\s"'<>]+\.(?:jpe?g|png|gif|webp|bmp|mp4|webm|m3u8|mpd|mp3|wav)(?:\?[^\s"'<>]*)?`)

// PredictedInput is the raw HTML text of PREDICT_RESOURCES' payload (spec
// §6); the page URL travels separately as the Job's PageURL.
type PredictedInput struct {
	HTML string
}

// PredictedExtractor implements Extractor for spec's "predicted" source.
// The source material's "ML" classifier used Math.random for its confidence
// score; spec §9 requires that be replaced with a deterministic heuristic,
// so confidence here is a pure function of URL/filename tokens, never
// randomized.
type PredictedExtractor struct{}

func (PredictedExtractor) Name() string { return "predicted" }

func (PredictedExtractor) Extract(pageURL string, input interface{}) ([]*cluster.Resource, error) {
	in, ok := input.(PredictedInput)
	if !ok {
		return nil, cmn.InvalidInputf("detect.PredictedExtractor: expected PredictedInput, got %T", input)
	}
	matches := predictedURLPattern.FindAllString(in.HTML, -1)
	if len(matches) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool, len(matches))
	var out []*cluster.Resource
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true

		r := newResource(pageURL, m, cmn.SourcePredicted, "")
		r.IsPredicted = true
		r.Confidence = predictConfidence(m)
		out = append(out, r)
	}
	return out, nil
}

// predictConfidence deterministically scores how likely a regex-matched
// string is to be a real, relevant media resource: recognized platform and
// CDN-like hosts raise confidence; generic/ad-like tokens lower it. Always
// clamped to [0,1] per spec invariant I4.
func predictConfidence(rawURL string) float64 {
	c := 0.5
	if cmn.ExtractPlatform(rawURL) != "" {
		c += 0.2
	}
	if cmn.IsCDNHost(rawURL) {
		c += 0.15
	}
	lower := strings.ToLower(rawURL)
	for _, tok := range []string{"ad", "banner", "promo", "sponsor", "tracking", "pixel"} {
		if strings.Contains(lower, tok) {
			c -= 0.25
			break
		}
	}
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}

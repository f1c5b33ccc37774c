package analyzer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// maxVariantsPerSource caps synthesised high-resolution variants per source
// record (spec §9 Variant explosion REDESIGN FLAG). Deduplicating the
// resulting URLs against an existing Resource Graph is the caller's
// responsibility (the graph lives in the cluster package; this package has
// no graph handle), per the same flag's "MUST deduplicate ... before
// insertion" instruction.
const maxVariantsPerSource = 8

var (
	lowResToken = regexp.MustCompile(`(?i)thumb|small|preview|low|mobile`)
	dimsToken   = regexp.MustCompile(`(\d+)x(\d+)`)
	smallSuffix = regexp.MustCompile(`_s\.|_m\.`)
	dimsSuffix  = regexp.MustCompile(`-\d+x\d+\.`)
)

// GenerateVariants implements spec §4.2 high-resolution variant synthesis.
// Images only; every other type yields nothing.
func GenerateVariants(r *cluster.Resource) []*cluster.Resource {
	if r.Type != cmn.TypeImage {
		return nil
	}

	var urls []string
	platform := cmn.ExtractPlatform(r.URL)
	switch platform {
	case "youtube":
		urls = append(urls, ytimgVariants(r.URL)...)
	case "twitter":
		urls = append(urls, twimgVariants(r.URL)...)
	case "instagram":
		urls = append(urls, instagramVariants(r.URL)...)
	}

	if u, ok := applyPattern(r.URL, lowResToken, "large"); ok {
		urls = append(urls, u)
	}
	if u, ok := doubleDims(r.URL); ok {
		urls = append(urls, u)
	}
	if u, ok := applyPattern(r.URL, smallSuffix, "_l."); ok {
		urls = append(urls, u)
	}
	if u, ok := applyPattern(r.URL, dimsSuffix, "."); ok {
		urls = append(urls, u)
	}

	return buildVariantRecords(r, urls)
}

func applyPattern(rawURL string, re *regexp.Regexp, repl string) (string, bool) {
	if !re.MatchString(rawURL) {
		return "", false
	}
	return re.ReplaceAllString(rawURL, repl), true
}

func doubleDims(rawURL string) (string, bool) {
	m := dimsToken.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	w, err1 := strconv.Atoi(m[1])
	h, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return "", false
	}
	doubled := fmt.Sprintf("%dx%d", w*2, h*2)
	return dimsToken.ReplaceAllString(rawURL, doubled), true
}

// ytimgVariants implements spec §4.2's YouTube-specific rule: for
// i.ytimg.com/vi/{id}/*.jpg thumbnails, emit all three well-known quality
// tiers for the same video id, including the source's own tier.
func ytimgVariants(rawURL string) []string {
	re := regexp.MustCompile(`(/vi/[^/]+/)[^/]+\.jpg`)
	if !re.MatchString(rawURL) {
		return nil
	}
	var out []string
	for _, tier := range []string{"maxresdefault", "sddefault", "hqdefault"} {
		out = append(out, re.ReplaceAllString(rawURL, "${1}"+tier+".jpg"))
	}
	return out
}

// twimgVariants implements the twimg rule: append/replace the format+name
// query parameters that select Twitter's large rendition.
func twimgVariants(rawURL string) []string {
	base := rawURL
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return []string{base + "?format=jpg&name=large"}
}

// instagramVariants implements the instagram/cdninstagram rule: strip the
// e<N>/s<W>x<H>/p<W>x<H> path segments Instagram's CDN uses to select a
// specific rendition size, leaving the canonical (largest) URL.
func instagramVariants(rawURL string) []string {
	re := regexp.MustCompile(`/(?:e\d+|s\d+x\d+|p\d+x\d+)/`)
	if !re.MatchString(rawURL) {
		return nil
	}
	return []string{re.ReplaceAllString(rawURL, "/")}
}

func buildVariantRecords(src *cluster.Resource, urls []string) []*cluster.Resource {
	if len(urls) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]*cluster.Resource, 0, len(urls))
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true

		v := src.Clone()
		v.URL = u
		v.Filename = ""
		v.IsPredictedVariant = true
		v.OriginalURL = src.URL
		v.Fingerprint = ""
		if src.HasSizeBytes() {
			v.SetSizeBytes(src.SizeBytes * 4)
		}
		v.Confidence = src.Confidence * 0.8
		out = append(out, v)

		if len(out) >= maxVariantsPerSource {
			break
		}
	}
	return out
}

// RelatedPatterns implements spec §4.2's related-resource patterns: regex
// templates returned as informational strings, never compiled or executed
// inside the core (SPEC_FULL.md Open Question 2).
func RelatedPatterns(r *cluster.Resource) []string {
	var out []string
	switch r.Type {
	case cmn.TypeImage:
		out = append(out, `-\d+x\d+\.`, `_(?:s|m|l)\.`)
	case cmn.TypeVideo:
		out = append(out, `\.(?:jpg|png)$ (poster candidate)`)
	}
	return out
}

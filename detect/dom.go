package detect

import (
	"strconv"
	"strings"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// DOMElement is the normalized record a content-script host hands to
// DOMExtractor: one element with the attributes this module cares about
// (src, srcset, poster, width/height), already resolved to the tag/attrs a
// media-bearing element can carry. Real DOM traversal is out of scope (spec
// §1); this struct is the extractor contract the spec names.
type DOMElement struct {
	Tag      string // "img", "video", "audio", "source", "picture", "link"
	Src      string
	Srcset   string // "url1 1x, url2 2x" or "url1 480w, url2 800w"
	Poster   string // video poster attribute
	Width    int
	Height   int
	HasDims  bool
	InShadow bool
}

// DOMExtractor implements Extractor for spec's "dom"/"shadow-dom" sources.
type DOMExtractor struct{}

func (DOMExtractor) Name() string { return "dom" }

func (DOMExtractor) Extract(pageURL string, input interface{}) ([]*cluster.Resource, error) {
	el, ok := input.(DOMElement)
	if !ok {
		return nil, cmn.InvalidInputf("detect.DOMExtractor: expected DOMElement, got %T", input)
	}

	source := cmn.SourceDOM
	if el.InShadow {
		source = cmn.SourceShadowDOM
	}

	var out []*cluster.Resource
	if el.Src != "" {
		r := newResource(pageURL, el.Src, source, "")
		if el.HasDims {
			r.SetDims(el.Width, el.Height)
		}
		out = append(out, r)
	}
	for _, cand := range parseSrcset(el.Srcset) {
		r := newResource(pageURL, cand.url, source, "")
		if cand.width > 0 {
			r.SetDims(cand.width, el.Height)
		}
		out = append(out, r)
	}
	if el.Tag == "video" && el.Poster != "" {
		poster := newResource(pageURL, el.Poster, source, "")
		poster.Type = cmn.TypeImage
		out = append(out, poster)
	}
	return out, nil
}

type srcsetCandidate struct {
	url   string
	width int
}

// parseSrcset handles both width descriptors ("800w") and pixel-density
// descriptors ("2x"); density descriptors carry no usable width so they are
// emitted with width=0 (unknown), letting the analyzer fall back to other
// quality signals (spec §4.2).
func parseSrcset(srcset string) []srcsetCandidate {
	if strings.TrimSpace(srcset) == "" {
		return nil
	}
	var out []srcsetCandidate
	for _, part := range strings.Split(srcset, ",") {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) == 0 {
			continue
		}
		cand := srcsetCandidate{url: fields[0]}
		if len(fields) > 1 && strings.HasSuffix(fields[1], "w") {
			if w, err := strconv.Atoi(strings.TrimSuffix(fields[1], "w")); err == nil {
				cand.width = w
			}
		}
		out = append(out, cand)
	}
	return out
}

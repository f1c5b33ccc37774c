package detect

import (
	"regexp"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// CSSDeclaration is one parsed declaration block's raw value text (e.g. a
// `background-image` or `background` property value); CSS parsing itself is
// out of scope (spec §1), so this extractor only needs the raw value.
type CSSDeclaration struct {
	Property string
	Value    string
}

var cssURLPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// CSSExtractor implements Extractor for spec's "css" source: background
// images and any other url(...) reference in a declaration's value.
type CSSExtractor struct{}

func (CSSExtractor) Name() string { return "css" }

func (CSSExtractor) Extract(pageURL string, input interface{}) ([]*cluster.Resource, error) {
	decl, ok := input.(CSSDeclaration)
	if !ok {
		return nil, cmn.InvalidInputf("detect.CSSExtractor: expected CSSDeclaration, got %T", input)
	}
	matches := cssURLPattern.FindAllStringSubmatch(decl.Value, -1)
	if len(matches) == 0 {
		return nil, nil
	}
	out := make([]*cluster.Resource, 0, len(matches))
	for _, m := range matches {
		rawURL := m[1]
		if rawURL == "" {
			continue
		}
		r := newResource(pageURL, rawURL, cmn.SourceCSS, "")
		r.Type = cmn.TypeImage // background-image/border-image/etc. are always image references
		out = append(out, r)
	}
	return out, nil
}

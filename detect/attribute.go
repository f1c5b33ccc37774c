package detect

import (
	"strings"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// attributeNamesOfInterest are non-standard attributes sites commonly use
// for lazy-loaded media (data-src family) or nested references a dedicated
// parser wouldn't otherwise see.
var attributeNamesOfInterest = map[string]bool{
	"data-src": true, "data-original": true, "data-lazy-src": true,
	"data-bg": true, "data-background": true, "data-image": true,
	"data-video-src": true, "data-poster": true,
}

// AttributeRecord is one (attribute name, value) pair observed on an
// element, the normalized input to AttributeExtractor. Nested is set when
// the value itself contains another reference one level deep (e.g. a
// data-srcset-style attribute embedding several URLs) so the extractor can
// tag the resulting records with cmn.SourceNested instead of
// cmn.SourceAttribute.
type AttributeRecord struct {
	Name   string
	Value  string
	Nested bool
}

// AttributeExtractor implements Extractor for spec's "attribute"/"nested"
// sources: non-standard lazy-load attributes that DOMExtractor's fixed
// attribute set doesn't cover.
type AttributeExtractor struct{}

func (AttributeExtractor) Name() string { return "attribute" }

func (AttributeExtractor) Extract(pageURL string, input interface{}) ([]*cluster.Resource, error) {
	rec, ok := input.(AttributeRecord)
	if !ok {
		return nil, cmn.InvalidInputf("detect.AttributeExtractor: expected AttributeRecord, got %T", input)
	}
	name := strings.ToLower(rec.Name)
	if !attributeNamesOfInterest[name] && !strings.HasPrefix(name, "data-") {
		return nil, nil
	}
	value := strings.TrimSpace(rec.Value)
	if value == "" {
		return nil, nil
	}
	source := cmn.SourceAttribute
	if rec.Nested {
		source = cmn.SourceNested
	}
	r := newResource(pageURL, value, source, "")
	if name == "data-poster" {
		r.Type = cmn.TypeImage
	}
	return []*cluster.Resource{r}, nil
}

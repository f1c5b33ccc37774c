package detect_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/detect"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

func TestAttributeExtractorKnownLazyLoadAttribute(t *testing.T) {
	out, err := detect.AttributeExtractor{}.Extract(pageURL, detect.AttributeRecord{Name: "data-src", Value: "lazy.jpg"})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource, got %d", len(out))
	tassert.Errorf(t, out[0].Source == cmn.SourceAttribute, "expected source attribute, got %q", out[0].Source)
}

func TestAttributeExtractorNestedSource(t *testing.T) {
	out, err := detect.AttributeExtractor{}.Extract(pageURL, detect.AttributeRecord{Name: "data-src", Value: "lazy.jpg", Nested: true})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource")
	tassert.Errorf(t, out[0].Source == cmn.SourceNested, "expected source nested, got %q", out[0].Source)
}

func TestAttributeExtractorDataPosterTypedAsImage(t *testing.T) {
	out, err := detect.AttributeExtractor{}.Extract(pageURL, detect.AttributeRecord{Name: "data-poster", Value: "poster.jpg"})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource")
	tassert.Errorf(t, out[0].Type == cmn.TypeImage, "expected type image for data-poster, got %q", out[0].Type)
}

func TestAttributeExtractorUnrecognizedNonDataAttributeYieldsNothing(t *testing.T) {
	out, err := detect.AttributeExtractor{}.Extract(pageURL, detect.AttributeRecord{Name: "title", Value: "a photo"})
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(out) == 0, "expected no resources for an unrelated attribute, got %d", len(out))
}

func TestAttributeExtractorEmptyValueYieldsNothing(t *testing.T) {
	out, err := detect.AttributeExtractor{}.Extract(pageURL, detect.AttributeRecord{Name: "data-src", Value: "  "})
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(out) == 0, "expected no resources for a blank value, got %d", len(out))
}

func TestAttributeExtractorRejectsWrongInputType(t *testing.T) {
	_, err := detect.AttributeExtractor{}.Extract(pageURL, nil)
	tassert.Errorf(t, err != nil, "expected an error for a mistyped input")
}

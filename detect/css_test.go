package detect_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/detect"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

func TestCSSExtractorExtractsBackgroundImage(t *testing.T) {
	out, err := detect.CSSExtractor{}.Extract(pageURL, detect.CSSDeclaration{
		Property: "background-image", Value: `url("hero.jpg")`,
	})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource, got %d", len(out))
	tassert.Errorf(t, out[0].URL == "https://example.com/gallery/hero.jpg", "expected resolved url, got %q", out[0].URL)
	tassert.Errorf(t, out[0].Type == cmn.TypeImage, "expected type image, got %q", out[0].Type)
	tassert.Errorf(t, out[0].Source == cmn.SourceCSS, "expected source css, got %q", out[0].Source)
}

func TestCSSExtractorExtractsMultipleURLsInOneValue(t *testing.T) {
	out, err := detect.CSSExtractor{}.Extract(pageURL, detect.CSSDeclaration{
		Value: `url(a.png), url('b.png')`,
	})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 2, "expected 2 resources, got %d", len(out))
}

func TestCSSExtractorNoURLYieldsNothing(t *testing.T) {
	out, err := detect.CSSExtractor{}.Extract(pageURL, detect.CSSDeclaration{Value: "10px solid red"})
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(out) == 0, "expected no resources for a declaration without url(...), got %d", len(out))
}

func TestCSSExtractorRejectsWrongInputType(t *testing.T) {
	_, err := detect.CSSExtractor{}.Extract(pageURL, 42)
	tassert.Errorf(t, err != nil, "expected an error for a mistyped input")
}

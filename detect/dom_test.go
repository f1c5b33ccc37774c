package detect_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/detect"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

const pageURL = "https://example.com/gallery/"

func TestDOMExtractorName(t *testing.T) {
	tassert.Errorf(t, detect.DOMExtractor{}.Name() == "dom", "expected name %q", "dom")
}

func TestDOMExtractorExtractsSrc(t *testing.T) {
	out, err := detect.DOMExtractor{}.Extract(pageURL, detect.DOMElement{
		Tag: "img", Src: "cat.jpg", Width: 800, Height: 600, HasDims: true,
	})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource, got %d", len(out))
	tassert.Errorf(t, out[0].URL == "https://example.com/gallery/cat.jpg", "expected resolved url, got %q", out[0].URL)
	tassert.Errorf(t, out[0].Source == cmn.SourceDOM, "expected source dom, got %q", out[0].Source)
	w, h, known := dims(out[0])
	tassert.Errorf(t, known && w == 800 && h == 600, "expected dims 800x600 known, got %d %d %v", w, h, known)
}

func TestDOMExtractorShadowDOMSource(t *testing.T) {
	out, err := detect.DOMExtractor{}.Extract(pageURL, detect.DOMElement{Tag: "img", Src: "cat.jpg", InShadow: true})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource")
	tassert.Errorf(t, out[0].Source == cmn.SourceShadowDOM, "expected shadow-dom source, got %q", out[0].Source)
}

func TestDOMExtractorExtractsVideoPosterAsImage(t *testing.T) {
	out, err := detect.DOMExtractor{}.Extract(pageURL, detect.DOMElement{Tag: "video", Src: "movie.mp4", Poster: "poster.jpg"})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 2, "expected src + poster resources, got %d", len(out))
	tassert.Errorf(t, out[1].Type == cmn.TypeImage, "expected poster typed as image, got %q", out[1].Type)
	tassert.Errorf(t, out[1].URL == "https://example.com/gallery/poster.jpg", "expected resolved poster url, got %q", out[1].URL)
}

func TestDOMExtractorSrcsetWidthDescriptors(t *testing.T) {
	out, err := detect.DOMExtractor{}.Extract(pageURL, detect.DOMElement{
		Tag: "img", Srcset: "small.jpg 480w, big.jpg 1200w",
	})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 2, "expected 2 srcset candidates, got %d", len(out))
	w0, _, known0 := dims(out[0])
	tassert.Errorf(t, known0 && w0 == 480, "expected first candidate width 480, got %d known=%v", w0, known0)
	w1, _, known1 := dims(out[1])
	tassert.Errorf(t, known1 && w1 == 1200, "expected second candidate width 1200, got %d known=%v", w1, known1)
}

func TestDOMExtractorSrcsetDensityDescriptorsLeaveWidthUnknown(t *testing.T) {
	out, err := detect.DOMExtractor{}.Extract(pageURL, detect.DOMElement{Tag: "img", Srcset: "a.jpg 1x, b.jpg 2x"})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 2, "expected 2 candidates, got %d", len(out))
	_, _, known := dims(out[0])
	tassert.Errorf(t, !known, "expected density-only descriptor to leave dims unknown")
}

func TestDOMExtractorEmptySrcAndSrcsetYieldsNothing(t *testing.T) {
	out, err := detect.DOMExtractor{}.Extract(pageURL, detect.DOMElement{Tag: "img"})
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(out) == 0, "expected no resources for an element with no src/srcset, got %d", len(out))
}

func TestDOMExtractorRejectsWrongInputType(t *testing.T) {
	_, err := detect.DOMExtractor{}.Extract(pageURL, "not a DOMElement")
	tassert.Errorf(t, err != nil, "expected an error for a mistyped input")
}

func dims(r *cluster.Resource) (int, int, bool) {
	return r.Width, r.Height, r.HasDims()
}

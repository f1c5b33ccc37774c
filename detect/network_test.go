package detect_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/detect"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

func TestNetworkExtractorMediaExtensionQualifies(t *testing.T) {
	out, err := detect.NetworkExtractor{}.Extract(pageURL, detect.NetworkResponse{
		URL: "https://cdn.example.com/video.mp4", RequestID: "req-1",
	})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource, got %d", len(out))
	tassert.Errorf(t, out[0].Source == cmn.SourceNetwork, "expected source network, got %q", out[0].Source)
	tassert.Errorf(t, out[0].RequestID == "req-1", "expected request id propagated, got %q", out[0].RequestID)
}

func TestNetworkExtractorMediaContentTypeQualifiesWithoutExtension(t *testing.T) {
	out, err := detect.NetworkExtractor{}.Extract(pageURL, detect.NetworkResponse{
		URL: "https://cdn.example.com/blob123", ContentType: "image/png",
	})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource for image/png content-type, got %d", len(out))
}

func TestNetworkExtractorNonMediaYieldsNothing(t *testing.T) {
	out, err := detect.NetworkExtractor{}.Extract(pageURL, detect.NetworkResponse{
		URL: "https://example.com/api/data", ContentType: "application/json",
	})
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(out) == 0, "expected no resources for a non-media response, got %d", len(out))
}

func TestNetworkExtractorSetsSizeWhenContentLengthKnown(t *testing.T) {
	out, err := detect.NetworkExtractor{}.Extract(pageURL, detect.NetworkResponse{
		URL: "https://cdn.example.com/video.mp4", ContentLength: 4096, HasLength: true,
	})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 resource")
	tassert.Errorf(t, out[0].HasSizeBytes() && out[0].SizeBytes == 4096, "expected size 4096 recorded, got %d known=%v", out[0].SizeBytes, out[0].HasSizeBytes())
}

func TestNetworkExtractorRejectsWrongInputType(t *testing.T) {
	_, err := detect.NetworkExtractor{}.Extract(pageURL, 3.14)
	tassert.Errorf(t, err != nil, "expected an error for a mistyped input")
}

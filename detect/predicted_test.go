package detect_test

import (
	"testing"

	"github.com/resourcesniffer/sniffercore/cmn"
	"github.com/resourcesniffer/sniffercore/detect"
	"github.com/resourcesniffer/sniffercore/devtools/tassert"
)

func TestPredictedExtractorFindsQuotedMediaURLs(t *testing.T) {
	html := `<script>var cfg = {"img": "https://cdn.example.com/photo.jpg", "other": "not a url"};</script>`
	out, err := detect.PredictedExtractor{}.Extract(pageURL, detect.PredictedInput{HTML: html})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out) == 1, "expected 1 predicted resource, got %d", len(out))
	tassert.Errorf(t, out[0].Source == cmn.SourcePredicted, "expected source predicted, got %q", out[0].Source)
	tassert.Errorf(t, out[0].IsPredicted, "expected IsPredicted true")
}

func TestPredictedExtractorDedupesRepeatedURLs(t *testing.T) {
	html := `"https://cdn.example.com/a.png" and again "https://cdn.example.com/a.png"`
	out, err := detect.PredictedExtractor{}.Extract(pageURL, detect.PredictedInput{HTML: html})
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(out) == 1, "expected duplicate predicted urls collapsed to 1, got %d", len(out))
}

func TestPredictedExtractorNoMatchesYieldsNothing(t *testing.T) {
	out, err := detect.PredictedExtractor{}.Extract(pageURL, detect.PredictedInput{HTML: "<p>hello</p>"})
	tassert.CheckFatal(t, err)
	tassert.Errorf(t, len(out) == 0, "expected no predicted resources, got %d", len(out))
}

func TestPredictedExtractorConfidenceIsDeterministicAndClamped(t *testing.T) {
	html := `"https://cdn.youtube.com/thumb.jpg"`
	out1, err := detect.PredictedExtractor{}.Extract(pageURL, detect.PredictedInput{HTML: html})
	tassert.CheckFatal(t, err)
	out2, err := detect.PredictedExtractor{}.Extract(pageURL, detect.PredictedInput{HTML: html})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(out1) == 1 && len(out2) == 1, "expected 1 resource in each run")
	tassert.Errorf(t, out1[0].Confidence == out2[0].Confidence, "expected deterministic confidence across runs, got %v vs %v", out1[0].Confidence, out2[0].Confidence)
	tassert.Errorf(t, out1[0].Confidence >= 0 && out1[0].Confidence <= 1, "expected confidence clamped to [0,1], got %v", out1[0].Confidence)
}

func TestPredictedExtractorPenalizesAdTokens(t *testing.T) {
	adHTML := `"https://cdn.example.com/ad-banner.jpg"`
	plainHTML := `"https://cdn.example.com/photo.jpg"`
	adOut, err := detect.PredictedExtractor{}.Extract(pageURL, detect.PredictedInput{HTML: adHTML})
	tassert.CheckFatal(t, err)
	plainOut, err := detect.PredictedExtractor{}.Extract(pageURL, detect.PredictedInput{HTML: plainHTML})
	tassert.CheckFatal(t, err)
	tassert.Fatalf(t, len(adOut) == 1 && len(plainOut) == 1, "expected 1 resource from each input")
	tassert.Errorf(t, adOut[0].Confidence < plainOut[0].Confidence, "expected ad-token url to score lower confidence: %v vs %v", adOut[0].Confidence, plainOut[0].Confidence)
}

func TestPredictedExtractorRejectsWrongInputType(t *testing.T) {
	_, err := detect.PredictedExtractor{}.Extract(pageURL, "not a PredictedInput")
	tassert.Errorf(t, err != nil, "expected an error for a mistyped input")
}

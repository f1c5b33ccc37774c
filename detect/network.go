package detect

import (
	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// NetworkResponse is one observed HTTP response's relevant headers; real
// network interception is out of scope (spec §1), the host hands this
// module an already-captured response summary per request.
type NetworkResponse struct {
	URL           string
	ContentType   string
	ContentLength int64
	HasLength     bool
	RequestID     string
}

// NetworkExtractor implements Extractor for spec's "network" source:
// resources discovered by observing response headers rather than the DOM,
// linked back to their originating request via RequestID (spec §3
// request_id).
type NetworkExtractor struct{}

func (NetworkExtractor) Name() string { return "network" }

func (NetworkExtractor) Extract(pageURL string, input interface{}) ([]*cluster.Resource, error) {
	resp, ok := input.(NetworkResponse)
	if !ok {
		return nil, cmn.InvalidInputf("detect.NetworkExtractor: expected NetworkResponse, got %T", input)
	}
	if !cmn.IsMediaURL(resp.URL) && !isMediaContentType(resp.ContentType) {
		return nil, nil
	}
	r := newResource(pageURL, resp.URL, cmn.SourceNetwork, resp.ContentType)
	if resp.HasLength {
		r.SetSizeBytes(resp.ContentLength)
	}
	r.RequestID = resp.RequestID
	return []*cluster.Resource{r}, nil
}

func isMediaContentType(ct string) bool {
	for _, prefix := range []string{"image/", "video/", "audio/"} {
		if len(ct) >= len(prefix) && ct[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}

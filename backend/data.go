package backend

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/resourcesniffer/sniffercore/cmn"
)

// dataAdapter implements Adapter for data: URLs (spec §4.7 table): parses
// the MIME type and encoding from the URL prefix, materializes the body to
// an in-memory blob. Grounded on the teacher's in-memory "ais" backend
// (ais/backend/ais.go), which likewise serves objects straight out of a
// local store rather than issuing a network call.
type dataAdapter struct{}

var _ Adapter = (*dataAdapter)(nil)

func NewDataAdapter() Adapter { return &dataAdapter{} }

func (d *dataAdapter) CanHandle(rawURL string) bool {
	return strings.HasPrefix(rawURL, "data:")
}

// parseDataURL splits "data:[mime][;base64],<data>" per RFC 2397.
func parseDataURL(rawURL string) (mime string, isBase64 bool, payload string, ok bool) {
	rest := strings.TrimPrefix(rawURL, "data:")
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return "", false, "", false
	}
	meta, payload := rest[:comma], rest[comma+1:]
	isBase64 = strings.HasSuffix(meta, ";base64")
	mime = strings.TrimSuffix(meta, ";base64")
	if mime == "" {
		mime = "text/plain;charset=US-ASCII" // RFC 2397 default
	}
	return mime, isBase64, payload, true
}

func (d *dataAdapter) Probe(ctx context.Context, rawURL string) (ProbeResult, error) {
	mime, isBase64, payload, ok := parseDataURL(rawURL)
	if !ok {
		return ProbeResult{}, cmn.InvalidInputf("malformed data: URL")
	}
	var size int64
	if isBase64 {
		size = int64(len(payload)) * 3 / 4
	} else {
		if decoded, err := url.QueryUnescape(payload); err == nil {
			size = int64(len(decoded))
		} else {
			size = int64(len(payload))
		}
	}
	return ProbeResult{
		ContentType: mime,
		Type:        cmn.InferType(rawURL, mime),
		Size:        size,
		SizeKnown:   true,
		Available:   true,
	}, nil
}

func (d *dataAdapter) Fetch(ctx context.Context, rawURL string, _ FetchOptions) (FetchResult, error) {
	mime, isBase64, payload, ok := parseDataURL(rawURL)
	if !ok {
		return FetchResult{}, cmn.InvalidInputf("malformed data: URL")
	}
	var body []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return FetchResult{}, cmn.InvalidInputf("decode base64 data: URL: %v", err)
		}
		body = decoded
	} else {
		decoded, err := url.QueryUnescape(payload)
		if err != nil {
			return FetchResult{}, cmn.InvalidInputf("decode data: URL: %v", err)
		}
		body = []byte(decoded)
	}
	return FetchResult{Body: body, ContentType: mime}, nil
}

func (d *dataAdapter) Download(ctx context.Context, rawURL, destPath string, opts DownloadOptions) (string, error) {
	res, err := d.Fetch(ctx, rawURL, opts.FetchOptions)
	if err != nil {
		return "", err
	}
	if opts.OnChunk != nil {
		if err := opts.OnChunk(len(res.Body)); err != nil {
			return "", err
		}
	}
	return cmn.GenID(), nil
}

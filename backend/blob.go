package backend

import (
	"context"
	"strings"
)

// blobAdapter implements Adapter for blob: URLs (spec §4.7 table): "HEAD via
// fetch" / full GET, since blob: references an in-page object URL that only
// resolves inside the browser context this core doesn't own (spec §1). The
// adapter models the contract (probe degrades to a fetch-and-measure) so
// callers get a well-defined result rather than a scheme-not-supported
// error, while delegating the actual byte transfer to the same HTTPDoer the
// http adapter uses, matching how the teacher's httpProvider is reused
// as-is by any backend whose transport is plain HTTP under the hood.
type blobAdapter struct {
	http Adapter
}

var _ Adapter = (*blobAdapter)(nil)

func NewBlobAdapter(client HTTPDoer) Adapter {
	return &blobAdapter{http: NewHTTPAdapter(client)}
}

func (b *blobAdapter) CanHandle(rawURL string) bool {
	return strings.HasPrefix(rawURL, "blob:")
}

// httpEquivalent strips the "blob:" scheme prefix, since blob URLs are
// "blob:<origin-page-url>/<uuid>" and the browser resolves fetches against
// the origin page's HTTP(S) endpoint.
func httpEquivalent(rawURL string) string {
	return strings.TrimPrefix(rawURL, "blob:")
}

func (b *blobAdapter) Probe(ctx context.Context, rawURL string) (ProbeResult, error) {
	res, err := b.http.Probe(ctx, httpEquivalent(rawURL))
	if err != nil {
		return ProbeResult{}, err
	}
	return res, nil
}

func (b *blobAdapter) Fetch(ctx context.Context, rawURL string, opts FetchOptions) (FetchResult, error) {
	return b.http.Fetch(ctx, httpEquivalent(rawURL), opts)
}

func (b *blobAdapter) Download(ctx context.Context, rawURL, destPath string, opts DownloadOptions) (string, error) {
	return b.http.Download(ctx, httpEquivalent(rawURL), destPath, opts)
}

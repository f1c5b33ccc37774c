// Package detect implements the Extractor Set (spec §2.5, §1): the DOM,
// CSS, Attribute, Network-header, and Pattern-predictor extractors that turn
// normalized discovery input into Resource Records. DOM traversal mechanics
// themselves are out of scope (spec §1); each extractor here consumes an
// already-normalized record type (DOMElement, CSSDeclaration, ...) that a
// real content-script host would produce, and applies this module's
// detection and normalization rules to it.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package detect

import (
	"strings"
	"time"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// Extractor is the shared contract every source-specific extractor
// implements, grounded on cluster.BackendProvider's one-interface-many-
// implementations shape in the teacher.
type Extractor interface {
	// Name identifies the extractor for logging/stats (spec §2.11).
	Name() string
	// Extract turns input into zero or more Resource Records. input's
	// concrete type is extractor-specific (DOMElement, CSSDeclaration, ...);
	// a type assertion failure is a programmer error, not a runtime one.
	Extract(pageURL string, input interface{}) ([]*cluster.Resource, error)
}

func nowMillis() int64 { return time.Now().UnixMilli() }

// newResource builds the common skeleton every extractor fills in:
// resolved absolute URL, inferred type, filename, timestamp. Extractors then
// set source-specific fields (dimensions, stream flags, confidence).
func newResource(pageURL, rawURL string, source cmn.SourceKind, contentType string) *cluster.Resource {
	abs := cmn.Resolve(rawURL, pageURL)
	r := &cluster.Resource{
		URL:         abs,
		Source:      source,
		ContentType: contentType,
		Type:        cmn.InferType(abs, contentType),
		Filename:    filenameFromURL(abs),
		Timestamp:   nowMillis(),
	}
	if cmn.IsStreamingExt(abs) {
		r.IsStream = true
		r.StreamType = cmn.StreamHLS
		if strings.HasSuffix(strings.ToLower(abs), ".mpd") {
			r.StreamType = cmn.StreamDASH
		}
	}
	return r
}

func filenameFromURL(rawURL string) string {
	u := rawURL
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		if name := u[i+1:]; name != "" {
			return name
		}
		return "resource"
	}
	if u == "" {
		return "resource"
	}
	return u
}

package cmn

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/OneOfOne/xxhash"
)

// trackingParams are query keys stripped by Normalize regardless of case;
// they vary per-request without changing resource identity.
var trackingParams = map[string]struct{}{
	"sid": {}, "session": {}, "timestamp": {}, "time": {}, "t": {},
	"rand": {}, "r": {}, "nonce": {}, "_": {}, "v": {},
}

// Normalize produces a deterministic identity string for a URL: lowercased
// host, original path, tracking query parameters dropped (order of the
// remaining ones preserved), fragment always dropped.
func Normalize(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	host := strings.ToLower(u.Host)
	var kept []string
	if u.RawQuery != "" {
		for _, pair := range strings.Split(u.RawQuery, "&") {
			if pair == "" {
				continue
			}
			key := pair
			if i := strings.IndexByte(pair, '='); i >= 0 {
				key = pair[:i]
			}
			if _, stripped := trackingParams[strings.ToLower(key)]; stripped {
				continue
			}
			kept = append(kept, pair)
		}
	}
	norm := u.Scheme + "://" + host + u.Path
	if len(kept) > 0 {
		norm += "?" + strings.Join(kept, "&")
	}
	return norm
}

// URLFingerprint hashes the normalized URL with the mixing function from
// spec §4.1: h <- ((h<<5)-h)+codepoint, h <- h|0 (32-bit wraparound),
// emitted as the absolute value in lowercase hex, zero-padded to 8 digits.
// This intentionally reproduces the source's weak multiplicative hash:
// collisions are acceptable because the Deduplicator's similarity pass
// reconciles them (spec §4.1 Failure).
func URLFingerprint(rawURL string) string {
	norm := Normalize(rawURL)
	var h int32
	for _, r := range norm {
		h = (h << 5) - h + r
	}
	if h < 0 {
		h = -h
	}
	return fmt.Sprintf("%08x", uint32(h))
}

// XXFingerprint is an xxhash-backed alternative hash: faster and
// better-distributed than URLFingerprint, but not spec-mandated, so it never
// replaces URLFingerprint as the stored identity. No package in this module
// calls it; the Deduplicator's cuckoo filter is keyed on the fingerprint
// string itself.
func XXFingerprint(s string) uint64 {
	return xxhash.ChecksumString64(s)
}

// ResourceFingerprinter is the minimal view of a Resource Record that
// ResourceFingerprint needs, kept here to avoid an import cycle with the
// cluster package (which defines the full Resource type and calls this).
type ResourceFingerprinter interface {
	FingerprintURL() string
	FingerprintContentHash() string
	FingerprintType() string
	FingerprintSizeBytes() int64
	FingerprintDims() (w, h int, known bool)
}

// ResourceFingerprint implements spec §4.1 resource_fingerprint.
func ResourceFingerprint(r ResourceFingerprinter) string {
	urlFP := URLFingerprint(r.FingerprintURL())
	if ch := r.FingerprintContentHash(); ch != "" {
		return urlFP + ":" + ch
	}
	w, h, known := r.FingerprintDims()
	dims := ""
	if known {
		dims = fmt.Sprintf("%dx%d", w, h)
	}
	return fmt.Sprintf("%s:%s:%s:%s", urlFP, r.FingerprintType(), strconv.FormatInt(r.FingerprintSizeBytes(), 16), dims)
}

// Resolve implements spec §4.1 resolve: data:/blob: URLs pass through
// unchanged; everything else resolves against base per RFC 3986, falling
// back to the raw input on failure (spec §4.1 Failure).
func Resolve(rawURL, base string) string {
	if strings.HasPrefix(rawURL, "data:") || strings.HasPrefix(rawURL, "blob:") {
		return rawURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return rawURL
	}
	ref, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return baseURL.ResolveReference(ref).String()
}

var extToType = map[string]ResourceType{
	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage, "gif": TypeImage,
	"webp": TypeImage, "svg": TypeImage, "bmp": TypeImage, "ico": TypeImage,

	"mp4": TypeVideo, "webm": TypeVideo, "mov": TypeVideo, "avi": TypeVideo,
	"mkv": TypeVideo, "flv": TypeVideo, "wmv": TypeVideo, "m4v": TypeVideo,
	"m3u8": TypeVideo, "mpd": TypeVideo,

	"mp3": TypeAudio, "wav": TypeAudio, "ogg": TypeAudio, "aac": TypeAudio,
	"flac": TypeAudio, "m4a": TypeAudio,

	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument,
	"xls": TypeDocument, "xlsx": TypeDocument, "ppt": TypeDocument, "pptx": TypeDocument,
}

var streamExt = map[string]bool{"m3u8": true, "mpd": true}

// mimePrefixToType covers the observed content_type arm of infer_type.
var mimePrefixToType = map[string]ResourceType{
	"image/": TypeImage, "video/": TypeVideo, "audio/": TypeAudio,
	"application/pdf": TypeDocument,
}

func extOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	path := rawURL
	if err == nil && u.Path != "" {
		path = u.Path
	}
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i == len(path)-1 {
		return ""
	}
	return strings.ToLower(path[i+1:])
}

// IsMediaURL reports whether the URL's extension is one of the known media
// extensions (spec §4.1 is_media_url).
func IsMediaURL(rawURL string) bool {
	_, ok := extToType[extOf(rawURL)]
	return ok
}

// InferType implements spec §4.1 infer_type: content-type first, falling
// back to the extension table, defaulting to TypeOther.
func InferType(rawURL, contentType string) ResourceType {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	for prefix, t := range mimePrefixToType {
		if strings.HasPrefix(ct, prefix) {
			return t
		}
	}
	if t, ok := extToType[extOf(rawURL)]; ok {
		return t
	}
	return TypeOther
}

// IsStreamingExt reports whether the URL's extension denotes a streaming
// manifest (m3u8/mpd), used to set is_stream/stream_type on discovery.
func IsStreamingExt(rawURL string) bool {
	return streamExt[extOf(rawURL)]
}

// platform substring table, ordered so the first match wins when a hostname
// could plausibly contain more than one token (spec §4.1 extract_platform).
var platformHosts = []struct {
	substr, name string
}{
	{"youtube", "youtube"}, {"ytimg", "youtube"},
	{"vimeo", "vimeo"},
	{"facebook", "facebook"}, {"fbcdn", "facebook"},
	{"instagram", "instagram"}, {"cdninstagram", "instagram"},
	{"twitter", "twitter"}, {"twimg", "twitter"},
	{"tiktok", "tiktok"},
	{"pinterest", "pinterest"},
	{"imgur", "imgur"},
	{"giphy", "giphy"},
	{"unsplash", "unsplash"},
	{"pexels", "pexels"},
	{"flickr", "flickr"},
	{"500px", "500px"},
	{"shutterstock", "shutterstock"},
	{"gettyimages", "getty"}, {"getty", "getty"},
}

// ExtractPlatform implements spec §4.1 extract_platform.
func ExtractPlatform(rawURL string) string {
	u, err := url.Parse(rawURL)
	host := rawURL
	if err == nil && u.Host != "" {
		host = strings.ToLower(u.Host)
	} else {
		host = strings.ToLower(host)
	}
	for _, p := range platformHosts {
		if strings.Contains(host, p.substr) {
			return p.name
		}
	}
	return ""
}

// IsCDNHost implements the "CDN-like host" predicate used throughout §4.2's
// scoring (cdn|static|media|assets|content substrings).
func IsCDNHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	host := rawURL
	if err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.ToLower(host)
	for _, tok := range []string{"cdn", "static", "media", "assets", "content"} {
		if strings.Contains(host, tok) {
			return true
		}
	}
	return false
}

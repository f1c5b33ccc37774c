package downloader

import (
	"fmt"
	"math/rand"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

var sanitizeReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", "?", "_", "%", "_", "*", "_",
	":", "_", "|", "_", "\"", "_", "<", "_", ">", "_",
)

// Sanitize implements spec §4.5's filename sanitization: the character set
// /\?%*:|"<> replaced with "_", whitespace collapsed to "_".
func Sanitize(name string) string {
	name = sanitizeReplacer.Replace(name)
	return strings.Join(strings.Fields(name), "_")
}

// DeriveFilename implements spec §4.5's placeholder template:
// {site} {type} {index} {timestamp} {basename} {ext} {quality} {score}. If
// the result has no extension, the source's inferred extension is
// appended.
func DeriveFilename(r *cluster.Resource, format cmn.FilenameFormat, template string, index int) string {
	basename, ext := splitExt(r.Filename)
	site := cmn.ExtractPlatform(r.URL)
	if site == "" {
		site = "site"
	}

	tmpl := template
	switch format {
	case cmn.FormatOriginal:
		tmpl = "{basename}{ext}"
	case cmn.FormatTypeTimestamp:
		tmpl = "{type}_{timestamp}{ext}"
	case cmn.FormatSiteTypeIndex:
		tmpl = "{site}_{type}_{index}{ext}"
	case cmn.FormatCustom:
		if tmpl == "" {
			tmpl = "{basename}{ext}"
		}
	default:
		tmpl = "{basename}{ext}"
	}

	replacer := strings.NewReplacer(
		"{site}", site,
		"{type}", string(r.Type),
		"{index}", strconv.Itoa(index),
		"{timestamp}", strconv.FormatInt(r.Timestamp, 10),
		"{basename}", basename,
		"{ext}", ext,
		"{quality}", r.TextualQuality(),
		"{score}", strconv.Itoa(r.Score),
	)
	name := replacer.Replace(tmpl)
	if ext != "" && !strings.HasSuffix(name, ext) && !hasAnyExt(name) {
		name += ext
	}
	return Sanitize(name)
}

func splitExt(filename string) (basename, ext string) {
	ext = path.Ext(filename)
	basename = strings.TrimSuffix(filename, ext)
	if basename == "" {
		basename = "resource"
	}
	return basename, ext
}

func hasAnyExt(name string) bool {
	return path.Ext(name) != ""
}

// ResolveConflict implements spec §4.5's conflict-resolution rule: on
// conflict, append "_{timestamp}_{random}" before the extension. exists
// reports whether a candidate name is already taken (e.g. on disk or in the
// active-downloads set).
func ResolveConflict(name string, exists func(string) bool) string {
	if !exists(name) {
		return name
	}
	basename, ext := splitExt(name)
	for {
		candidate := fmt.Sprintf("%s_%d_%d%s", basename, time.Now().UnixMilli(), rand.Intn(1_000_000), ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

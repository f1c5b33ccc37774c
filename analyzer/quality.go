// Package analyzer implements the Analyzer (spec §4.2): per-resource
// quality banding, the three weighted sub-scores and their combination into
// `score`, and high-resolution variant synthesis, dispatched to a worker
// pool modeled on the teacher's ec.Manager singleton.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package analyzer

import (
	"strings"

	"github.com/resourcesniffer/sniffercore/cluster"
	"github.com/resourcesniffer/sniffercore/cmn"
)

// pixel-band thresholds, in pixels (w*h).
const (
	pixelsFullHD = 2073600 // 1920x1080
	pixelsHD     = 921600  // 1280x720
	pixelsSD     = 307200  // 640x480
)

// per-type size-band thresholds, in bytes.
var sizeBandThresholds = map[cmn.ResourceType][2]int64{
	cmn.TypeImage: {500_000, 100_000},
	cmn.TypeVideo: {10_000_000, 2_000_000},
	cmn.TypeAudio: {5_000_000, 1_000_000},
}

var highQualityTokens = []string{"high", "hd", "large", "original", "full", "max"}
var mediumQualityTokens = []string{"medium", "mid", "std"}
var lowQualityTokens = []string{"low", "small", "thumb", "preview", "mini", "tiny"}

// DetermineQuality implements spec §4.2's quality-banding cascade: pixels,
// then size, then URL-token heuristics, else unknown.
func DetermineQuality(r *cluster.Resource) cmn.Quality {
	if r.HasDims() {
		area := r.Area()
		switch {
		case area >= pixelsFullHD, area >= pixelsHD:
			return cmn.QualityHD
		case area >= pixelsSD:
			return cmn.QualitySD
		default:
			return cmn.QualityLD
		}
	}
	if r.HasSizeBytes() {
		if th, ok := sizeBandThresholds[r.Type]; ok {
			switch {
			case r.SizeBytes >= th[0]:
				return cmn.QualityHD
			case r.SizeBytes >= th[1]:
				return cmn.QualitySD
			default:
				return cmn.QualityLD
			}
		}
	}
	return urlTokenQuality(r.URL + " " + r.Filename)
}

func urlTokenQuality(s string) cmn.Quality {
	lower := strings.ToLower(s)
	if containsAny(lower, highQualityTokens) {
		return cmn.QualityHD
	}
	if containsAny(lower, mediumQualityTokens) {
		return cmn.QualitySD
	}
	if containsAny(lower, lowQualityTokens) {
		return cmn.QualityLD
	}
	return cmn.QualityUnknown
}

func containsAny(s string, toks []string) bool {
	for _, t := range toks {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// pixelBandPoints and sizeBandPoints back quality_score's additive pixel and
// size contributions (spec §4.2); they intentionally return finer-grained
// point values than DetermineQuality's 3-band output (two distinct point
// levels, 25 and 20, both correspond to the HD band).
func pixelBandPoints(r *cluster.Resource) int {
	if !r.HasDims() {
		return 0
	}
	area := r.Area()
	switch {
	case area >= pixelsFullHD:
		return 25
	case area >= pixelsHD:
		return 20
	case area >= pixelsSD:
		return 10
	default:
		return -5
	}
}

func sizeBandPoints(r *cluster.Resource) int {
	if !r.HasSizeBytes() {
		return 0
	}
	th, ok := sizeBandThresholds[r.Type]
	if !ok {
		return 0
	}
	switch {
	case r.SizeBytes >= th[0]:
		return 15
	case r.SizeBytes >= th[1]:
		return 5
	default:
		return -5
	}
}

// Package downloader implements the Download Scheduler (spec §4.5):
// priority-ordered, concurrency-capped, resumable download state machine,
// grounded on the teacher's downloader package (only its test file was
// retrieved, but it fixes the package's name, object-name normalization
// idiom, and test style) and on backend/http.go's fasthttp usage for the
// actual network transfer.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package downloader

import "github.com/resourcesniffer/sniffercore/cmn"

// State is one Download's position in the spec §4.5 state machine.
type State string

const (
	StateQueued      State = "queued"
	StateInProgress  State = "in_progress"
	StateComplete    State = "complete"
	StatePaused      State = "paused"
	StateInterrupted State = "interrupted"
	StateCancelled   State = "cancelled"
)

// terminal reports whether a download can never transition again without an
// explicit resume-as-new-download (spec §4.5 "Terminal: complete, cancelled").
func (s State) terminal() bool {
	return s == StateComplete || s == StateCancelled
}

// Download is one Download Record (spec §4.5), keyed by a short id
// (cmn.GenID) distinct from the originating Resource's fingerprint.
type Download struct {
	ID            string
	URL           string
	Filename      string
	Fingerprint   string
	Type          cmn.ResourceType
	Quality       cmn.Quality
	Score         int
	State         State
	TotalBytes    int64
	BytesReceived int64
	AddedTime     int64 // millis since epoch
	StartedTime   int64
	Priority      float64
	MimeType      string
	Retries       int
	LastError     string
	// ResumeOf, when set, is the download-id an interrupted/paused download
	// was resumed from (spec §4.5 "resume creates a new download-id").
	ResumeOf string
}

// Options carries per-request overrides for one Download (spec §6
// DOWNLOAD_RESOURCE payload's "options").
type Options struct {
	Path           string
	FilenameFormat cmn.FilenameFormat
	Index          int
}

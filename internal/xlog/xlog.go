// Package xlog is a thin wrapper around glog giving every package in this
// module a single, leveled logger without threading a *Logger through every
// constructor.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package xlog

import (
	"github.com/golang/glog"
)

// V-levels used across the core. Keep these few and coarse; per-component
// verbosity knobs belong in cmn.Config, not in the logging layer.
const (
	SmokeV   glog.Level = 2 // high-volume per-record tracing (extractor/analyzer)
	VerboseV glog.Level = 3 // scheduler state transitions, dedup decisions
)

func Infof(format string, args ...interface{})    { glog.Infof(format, args...) }
func Warningf(format string, args ...interface{}) { glog.Warningf(format, args...) }
func Errorf(format string, args ...interface{})   { glog.Errorf(format, args...) }

// V reports whether verbose logging at or above level is enabled, mirroring
// glog.V so call sites can write `if xlog.V(SmokeV) { xlog.Infof(...) }`
// without paying the formatting cost when disabled.
func V(level glog.Level) bool { return bool(glog.V(level)) }

// Flush flushes any buffered log entries; call on clean shutdown.
func Flush() { glog.Flush() }

// Package cmn provides the low-level types and utilities shared by every
// package in the resource-sniffer core: the URL/fingerprint engine, the
// configuration owner, ID generation, the generic LRU cache, the persisted
// key/value store contract, and the error taxonomy.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package cmn

import "github.com/pkg/errors"

// Error taxonomy (spec §7). Each kind is a sentinel wrapped with context via
// github.com/pkg/errors so a cause chain survives the {success, error}
// envelope translation at the server boundary.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrAdapterUnsupported = errors.New("no protocol adapter for scheme")
	ErrNetwork            = errors.New("network error")
	ErrInterrupted        = errors.New("download interrupted")
	ErrCancelled          = errors.New("cancelled")
	ErrWorker             = errors.New("worker error")
	ErrStorage            = errors.New("storage error")
)

// InvalidInputf wraps ErrInvalidInput with a formatted cause, matching the
// teacher's convention of sentinel-plus-Wrapf rather than ad hoc error
// strings at every call site.
func InvalidInputf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidInput, format, args...)
}

func NetworkErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrNetwork, format, args...)
}

func AdapterUnsupportedf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrAdapterUnsupported, format, args...)
}

func StorageErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrStorage, format, args...)
}

func WorkerErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrWorker, format, args...)
}

// Is re-exports errors.Is so callers outside this package don't need two
// error-handling imports.
func Is(err, target error) bool { return errors.Is(err, target) }

func Cause(err error) error { return errors.Cause(err) }

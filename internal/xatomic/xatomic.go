// Package xatomic re-exports the handful of go.uber.org/atomic types this
// module uses, the way the teacher's 3rdparty/atomic wraps uber's package:
// one import path to swap the implementation behind later if needed.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package xatomic

import "go.uber.org/atomic"

// Pointer[T] is re-exported rather than aliased: generic aliases cannot fix
// T here without losing genericity, so callers write xatomic.Pointer[T] and
// get the real uber type back.
type Pointer[T any] = atomic.Pointer[T]

type (
	Int32  = atomic.Int32
	Int64  = atomic.Int64
	Uint32 = atomic.Uint32
	Uint64 = atomic.Uint64
	Bool   = atomic.Bool
	Value  = atomic.Value
)

var (
	NewInt32  = atomic.NewInt32
	NewInt64  = atomic.NewInt64
	NewUint32 = atomic.NewUint32
	NewUint64 = atomic.NewUint64
	NewBool   = atomic.NewBool
)

// Package jsp (JSON persistence) saves and loads JSON-encoded structures to
// files with a small framing header, adapted from the teacher's cmn/jsp
// package: a signature plus version prefix, and a write-to-temp-then-rename
// so a crash mid-write never leaves a half-written file at the real path.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package jsp

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

const (
	signature = "snfr" // distinguishes our framed files from arbitrary JSON
	version   = 1
)

// Save encodes v as JSON, prefixes it with the signature/version frame, and
// atomically replaces filepath's contents.
func Save(filepath string, v interface{}) (err error) {
	tmp := fmt.Sprintf("%s.tmp.%d", filepath, os.Getpid())
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrapf(err, "jsp: create %s", tmp)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	if _, err = fmt.Fprintf(f, "%s%03d\n", signature, version); err != nil {
		f.Close()
		return errors.Wrap(err, "jsp: write frame header")
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(f)
	if err = enc.Encode(v); err != nil {
		f.Close()
		return errors.Wrapf(err, "jsp: encode %s", filepath)
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "jsp: close temp file")
	}
	if err = os.Rename(tmp, filepath); err != nil {
		return errors.Wrapf(err, "jsp: rename %s -> %s", tmp, filepath)
	}
	return nil
}

// Load reads a file written by Save into v, verifying the frame header
// first.
func Load(filepath string, v interface{}) error {
	f, err := os.Open(filepath)
	if err != nil {
		return errors.Wrapf(err, "jsp: open %s", filepath)
	}
	defer f.Close()

	header := make([]byte, len(signature)+4)
	if _, err := f.Read(header); err != nil {
		return errors.Wrapf(err, "jsp: read frame header from %s", filepath)
	}
	if string(header[:len(signature)]) != signature {
		return errors.Errorf("jsp: %s is not a recognized snfr file", filepath)
	}
	dec := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(f)
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, "jsp: decode %s", filepath)
	}
	return nil
}

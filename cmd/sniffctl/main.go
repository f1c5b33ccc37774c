// Command sniffctl is a small operator CLI for manually exercising and
// inspecting a Resource Sniffer core outside of its usual browser-extension
// host: add and list resources in a tab, drive downloads through the
// scheduler and watch its queue drain, and inspect the network-speed
// estimator's recommendation and the persisted resumable-download store.
// Grounded on the teacher's own flat, os.Args[1]-dispatched command style
// (cmd/aisnodeprofile and the teacher's cmd/cli commands package both
// switch on a verb before parsing the rest of the flags); since this
// module's own go.mod carries no CLI framework and the teacher's cmd/cli is
// a separately-moduled urfave/cli tree we chose not to pull in (see
// DESIGN.md), this hand-rolls the same verb-then-flags shape with the
// standard library's flag package.
/*
 * Copyright (c) 2024, Resource Sniffer Core authors. All rights reserved.
 */
package main

import (
	"fmt"
	"os"

	"github.com/resourcesniffer/sniffercore/internal/xlog"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "resources":
		err = runResources(args)
	case "download":
		err = runDownload(args)
	case "speed":
		err = runSpeed(args)
	case "resumable":
		err = runResumable(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "sniffctl: unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}

	xlog.Flush()
	if err != nil {
		fmt.Fprintf(os.Stderr, "sniffctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `sniffctl: inspect a resourcesniffer/sniffercore instance

Usage:
  sniffctl resources -tab <id> -urls <u1,u2,...>   analyze and add resources to a tab, then list it
  sniffctl download -urls <u1,u2,...> [-out <dir>] enqueue downloads and watch the queue drain
  sniffctl speed -samples <file>                    replay throughput samples and print the speed analysis
  sniffctl resumable -db <path>                     list persisted resumable downloads in a buntdb file

-samples is a text file, one sample per line: "<timestamp_millis> <bytes> <elapsed_seconds>".
`)
}

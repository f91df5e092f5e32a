// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

// Command cbordump renders CBOR data as an indented tree or as RFC 8949
// diagnostic notation.
//
//	cbordump voucher.cbor
//	cbordump --diag voucher.cbor
//	cbordump --hex 83010203
//	cat voucher.cbor | cbordump
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/fido-device-onboard/cborstream/cbor"
	"github.com/fido-device-onboard/cborstream/cbor/cdn"
)

var (
	hexInput bool
	diag     bool
	maxDepth int
	debug    bool
)

func init() {
	pflag.BoolVar(&hexInput, "hex", false, "treat the argument as a hex string instead of a file path")
	pflag.BoolVar(&diag, "diag", false, "emit diagnostic notation instead of the indented tree")
	pflag.IntVar(&maxDepth, "max-depth", cbor.DefaultMaxDepth, "container nesting limit for the tree dump")
	pflag.BoolVar(&debug, "debug", false, "print debug contents")
}

func main() {
	pflag.Parse()
	if debug {
		level.Set(slog.LevelDebug)
	}

	if err := run(pflag.Args()); err != nil {
		slog.Error("dump failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	data, err := input(args)
	if err != nil {
		return err
	}
	slog.Debug("read input", "bytes", len(data))

	s := cbor.NewFromEncoded(data)

	if diag {
		out, err := cdn.FromStream(s)
		if err != nil {
			return err
		}
		fmt.Println(out)
		return nil
	}

	return s.DumpDepth(os.Stdout, maxDepth)
}

func input(args []string) ([]byte, error) {
	switch {
	case hexInput:
		if len(args) != 1 {
			return nil, fmt.Errorf("--hex expects exactly one hex string argument")
		}
		return hex.DecodeString(strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' {
				return -1
			}
			return r
		}, args[0]))

	case len(args) == 1:
		return os.ReadFile(args[0])

	case len(args) == 0:
		return io.ReadAll(os.Stdin)

	default:
		return nil, fmt.Errorf("expected at most one input path, got %d arguments", len(args))
	}
}

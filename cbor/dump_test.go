// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/fido-device-onboard/cborstream/cbor"
)

func TestPrint(t *testing.T) {
	s := cbor.New(16)
	_, _ = s.EncodeArray(3)
	_, _ = s.EncodeInt(1)
	_, _ = s.EncodeInt(2)
	_, _ = s.EncodeInt(3)

	var b strings.Builder
	s.Print(&b)
	if diff := cmp.Diff("0x83010203", b.String()); diff != "" {
		t.Errorf("hex dump mismatch (-want +got):\n%s", diff)
	}

	b.Reset()
	cbor.New(8).Print(&b)
	if b.String() != "" {
		t.Errorf("empty stream printed %q", b.String())
	}
}

func TestDump(t *testing.T) {
	t.Run("scalars", func(t *testing.T) {
		s := cbor.New(64)
		_, _ = s.EncodeInt(-100)
		_, _ = s.EncodeUint64(1000000)
		_, _ = s.EncodeBool(true)
		_, _ = s.EncodeTextString("hello")
		_, _ = s.EncodeByteString([]byte("abc"))
		_, _ = s.EncodeFloat16(1.5)
		_, _ = s.EncodeFloat64(1.1)

		want := strings.Join([]string{
			"Data:",
			"(int, -100)",
			"(int, 1000000)",
			"(bool, true)",
			`(unicode string, "hello")`,
			`(byte string, "abc")`,
			"(float, 1.500000)",
			"(double, 1.100000)",
			"",
			"",
		}, "\n")

		var b strings.Builder
		if err := s.Dump(&b); err != nil {
			t.Fatalf("error dumping: %v", err)
		}
		if diff := cmp.Diff(want, b.String()); diff != "" {
			t.Errorf("dump mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("nested containers", func(t *testing.T) {
		s := cbor.New(64)
		_, _ = s.EncodeArray(2)
		_, _ = s.EncodeInt(1)
		_, _ = s.EncodeMap(1)
		_, _ = s.EncodeTextString("key")
		_, _ = s.EncodeInt(2)

		want := strings.Join([]string{
			"Data:",
			"(array, length: 2)",
			"  (int, 1)",
			"  (map, length: 1)",
			`   (unicode string, "key")`,
			"    (int, 2)",
			"",
			"",
		}, "\n")

		var b strings.Builder
		if err := s.Dump(&b); err != nil {
			t.Fatalf("error dumping: %v", err)
		}
		if diff := cmp.Diff(want, b.String()); diff != "" {
			t.Errorf("dump mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("indefinite containers", func(t *testing.T) {
		s := cbor.New(64)
		_, _ = s.EncodeIndefiniteArray()
		_, _ = s.EncodeInt(1)
		_, _ = s.EncodeInt(2)
		_, _ = s.WriteBreak()
		_, _ = s.EncodeIndefiniteMap()
		_, _ = s.EncodeInt(1)
		_, _ = s.EncodeByteString([]byte("1"))
		_, _ = s.WriteBreak()

		want := strings.Join([]string{
			"Data:",
			"(array, length: [indefinite])",
			"  (int, 1)",
			"  (int, 2)",
			"(map, length: [indefinite])",
			" (int, 1)",
			`  (byte string, "1")`,
			"",
			"",
		}, "\n")

		var b strings.Builder
		if err := s.Dump(&b); err != nil {
			t.Fatalf("error dumping: %v", err)
		}
		if diff := cmp.Diff(want, b.String()); diff != "" {
			t.Errorf("dump mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("date time tags", func(t *testing.T) {
		s := cbor.New(64)
		when := mustParseTime(t, "2013-03-21T20:04:00Z")
		_, _ = s.EncodeDateTime(when)
		_, _ = s.EncodeEpochDateTime(when)
		_, _ = s.WriteTag(42)
		_, _ = s.EncodeInt(1)

		want := strings.Join([]string{
			"Data:",
			`(tag: 0, date/time string: "Thu Mar 21 20:04:00 2013")`,
			"(tag: 1, date/time epoch: 1363896240)",
			"(tag: 42, unknown content)",
			"(int, 1)",
			"",
			"",
		}, "\n")

		var b strings.Builder
		if err := s.Dump(&b); err != nil {
			t.Fatalf("error dumping: %v", err)
		}
		if diff := cmp.Diff(want, b.String()); diff != "" {
			t.Errorf("dump mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("undecodable item", func(t *testing.T) {
		// A stray break at the top level is not a decodable item: the
		// dump prints a diagnostic naming offset and byte, then stops.
		s := cbor.NewFromEncoded([]byte{0x01, 0xff, 0x02})

		want := strings.Join([]string{
			"Data:",
			"(int, 1)",
			"Failed to read from stream at offset 1, start byte 0xFF",
			"0x01FF02",
			"",
		}, "\n")

		var b strings.Builder
		if err := s.Dump(&b); err == nil {
			t.Fatal("expected an error for an undecodable stream")
		}
		if diff := cmp.Diff(want, b.String()); diff != "" {
			t.Errorf("dump mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("depth limit", func(t *testing.T) {
		// Items nested deeper than the limit are reported as failures
		// instead of recursed into.
		s := cbor.New(64)
		for i := 0; i < 4; i++ {
			_, _ = s.EncodeArray(1)
		}
		_, _ = s.EncodeInt(1)

		var b strings.Builder
		_ = s.DumpDepth(&b, 3)
		if !strings.Contains(b.String(), "Failed to read array item at position 0") {
			t.Fatalf("expected a depth failure in output:\n%s", b.String())
		}

		b.Reset()
		if err := s.DumpDepth(&b, 8); err != nil {
			t.Fatalf("error dumping within the depth limit: %v", err)
		}
		if strings.Contains(b.String(), "Failed") {
			t.Fatalf("unexpected failure in output:\n%s", b.String())
		}
	})
}

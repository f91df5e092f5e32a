// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"fmt"
	"io"
	"time"
)

// dumpBufferSize bounds the string payloads the printer renders.
const dumpBufferSize = 1024

// DefaultMaxDepth is the container nesting limit for Dump. A malicious
// stream can request arbitrary nesting; the limit bounds printer recursion.
const DefaultMaxDepth = 32

// Print writes the encoded region as one hexadecimal literal, e.g. 0x8301.
// An empty stream prints nothing.
func (s *Stream) Print(w io.Writer) {
	if s == nil || s.pos == 0 {
		return
	}
	fmt.Fprintf(w, "0x")
	for _, b := range s.Bytes() {
		fmt.Fprintf(w, "%02X", b)
	}
}

// Dump pretty-prints every item in the stream as an indented tree, driving
// the deserializers from offset 0 until the position is reached. On an
// undecodable item it prints a one-line diagnostic naming the offset and
// offending byte, stops, and returns an error.
func (s *Stream) Dump(w io.Writer) error {
	return s.DumpDepth(w, DefaultMaxDepth)
}

// DumpDepth is Dump with a custom container nesting limit.
func (s *Stream) DumpDepth(w io.Writer, maxDepth int) error {
	fmt.Fprintf(w, "Data:\n")

	offset := 0
	for offset < s.pos {
		n := s.dumpAt(w, offset, 0, maxDepth)
		if n == 0 {
			fmt.Fprintf(w, "Failed to read from stream at offset %d, start byte 0x%02X\n", offset, s.data[offset])
			s.Print(w)
			fmt.Fprintln(w)
			return fmt.Errorf("cbor: undecodable item at offset %d, start byte 0x%02x", offset, s.data[offset])
		}
		offset += n
	}

	fmt.Fprintln(w)
	return nil
}

// dumpAt prints the item at offset with the given indent and returns the
// bytes consumed, or 0 when the item cannot be decoded.
func (s *Stream) dumpAt(w io.Writer, offset, indent, depth int) int {
	if s.AtEnd(offset) || depth <= 0 {
		return 0
	}

	fmt.Fprintf(w, "%*s", indent, "")

	switch s.data[offset] >> 5 {
	case unsignedIntMajorType:
		v, n, err := s.DecodeUint64(offset)
		if err != nil {
			return 0
		}
		fmt.Fprintf(w, "(int, %d)\n", v)
		return n

	case negativeIntMajorType:
		v, n, err := s.DecodeInt64(offset)
		if err != nil {
			return 0
		}
		fmt.Fprintf(w, "(int, %d)\n", v)
		return n

	case byteStringMajorType:
		payload, n, err := s.ByteString(offset)
		if err != nil || len(payload) >= dumpBufferSize {
			return 0
		}
		fmt.Fprintf(w, "(byte string, \"%s\")\n", payload)
		return n

	case textStringMajorType:
		payload, n, err := s.TextString(offset)
		if err != nil || len(payload) >= dumpBufferSize {
			return 0
		}
		fmt.Fprintf(w, "(unicode string, \"%s\")\n", payload)
		return n

	case arrayMajorType:
		return s.dumpArray(w, offset, indent, depth)

	case mapMajorType:
		return s.dumpMap(w, offset, indent, depth)

	case tagMajorType:
		return s.dumpTag(w, offset)

	case simpleMajorType:
		switch s.data[offset] {
		case falseByte, trueByte:
			v, n, err := s.DecodeBool(offset)
			if err != nil {
				return 0
			}
			fmt.Fprintf(w, "(bool, %t)\n", v)
			return n
		case float16Byte:
			v, n, err := s.DecodeFloat16(offset)
			if err != nil {
				return 0
			}
			fmt.Fprintf(w, "(float, %f)\n", v)
			return n
		case float32Byte:
			v, n, err := s.DecodeFloat32(offset)
			if err != nil {
				return 0
			}
			fmt.Fprintf(w, "(float, %f)\n", v)
			return n
		case float64Byte:
			v, n, err := s.DecodeFloat64(offset)
			if err != nil {
				return 0
			}
			fmt.Fprintf(w, "(double, %f)\n", v)
			return n
		}
	}

	return 0
}

func (s *Stream) dumpArray(w io.Writer, offset, indent, depth int) int {
	indefinite := s.data[offset] == indefArrayByte

	var length uint64
	var readBytes int
	if indefinite {
		n, err := s.DecodeIndefiniteArray(offset)
		if err != nil {
			return 0
		}
		readBytes = n
		fmt.Fprintf(w, "(array, length: [indefinite])\n")
	} else {
		var n int
		var err error
		length, n, err = s.DecodeArray(offset)
		if err != nil {
			return 0
		}
		readBytes = n
		fmt.Fprintf(w, "(array, length: %d)\n", length)
	}
	offset += readBytes

	for i := uint64(0); indefinite || i < length; i++ {
		if indefinite && s.AtBreak(offset) {
			break
		}

		n := s.dumpAt(w, offset, indent+2, depth-1)
		if n == 0 {
			fmt.Fprintf(w, "Failed to read array item at position %d\n", i)
			break
		}
		offset += n
		readBytes += n
	}

	if indefinite && !s.AtEnd(offset) && s.data[offset] == breakByte {
		readBytes++
	}
	return readBytes
}

func (s *Stream) dumpMap(w io.Writer, offset, indent, depth int) int {
	indefinite := s.data[offset] == indefMapByte

	var length uint64
	var readBytes int
	if indefinite {
		n, err := s.DecodeIndefiniteMap(offset)
		if err != nil {
			return 0
		}
		readBytes = n
		fmt.Fprintf(w, "(map, length: [indefinite])\n")
	} else {
		var n int
		var err error
		length, n, err = s.DecodeMap(offset)
		if err != nil {
			return 0
		}
		readBytes = n
		fmt.Fprintf(w, "(map, length: %d)\n", length)
	}
	offset += readBytes

	for i := uint64(0); indefinite || i < length; i++ {
		if indefinite && s.AtBreak(offset) {
			break
		}

		keyBytes := s.dumpAt(w, offset, indent+1, depth-1)
		offset += keyBytes
		valueBytes := s.dumpAt(w, offset, indent+2, depth-1)
		offset += valueBytes

		if keyBytes == 0 || valueBytes == 0 {
			fmt.Fprintf(w, "Failed to read key-value pair at position %d\n", i)
			break
		}
		readBytes += keyBytes + valueBytes
	}

	if indefinite && !s.AtEnd(offset) && s.data[offset] == breakByte {
		readBytes++
	}
	return readBytes
}

func (s *Stream) dumpTag(w io.Writer, offset int) int {
	tag, n, err := s.DecodeTag(offset)
	if err != nil {
		return 0
	}
	fmt.Fprintf(w, "(tag: %d, ", tag)

	switch tag {
	case DateTimeStringTag:
		t, m, err := s.DecodeDateTime(offset)
		if err != nil {
			fmt.Fprintf(w, "unknown content)\n")
			return n
		}
		fmt.Fprintf(w, "date/time string: \"%s\")\n", t.Format(time.ANSIC))
		return m

	case DateTimeEpochTag:
		t, m, err := s.DecodeEpochDateTime(offset)
		if err != nil {
			fmt.Fprintf(w, "unknown content)\n")
			return n
		}
		fmt.Fprintf(w, "date/time epoch: %d)\n", t.Unix())
		return m

	default:
		fmt.Fprintf(w, "unknown content)\n")
		return n
	}
}

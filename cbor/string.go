// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"fmt"
	"math"
)

// EncodeByteString writes v as a major type 2 byte string: a length header
// followed by the raw bytes. Nothing is written unless header and payload
// both fit.
func (s *Stream) EncodeByteString(v []byte) (int, error) {
	return s.encodeBytes(byteStringMajorType, v)
}

// EncodeTextString writes v as a major type 3 text string. The bytes are
// expected to be UTF-8 but are not validated.
func (s *Stream) EncodeTextString(v string) (int, error) {
	return s.encodeBytes(textStringMajorType, []byte(v))
}

func (s *Stream) encodeBytes(majorType byte, v []byte) (int, error) {
	if !s.fits(argumentSize(uint64(len(v))) + len(v)) {
		return 0, ErrCapacity
	}
	n, err := s.encodeArgument(majorType, uint64(len(v)))
	if err != nil {
		return 0, err
	}
	copy(s.data[s.pos:], v)
	s.pos += len(v)
	return n + len(v), nil
}

// DecodeByteString reads a major type 2 byte string at offset into out,
// which must hold the payload plus a NUL terminator at index length. It
// returns the total bytes consumed from the stream (header plus payload).
func (s *Stream) DecodeByteString(offset int, out []byte) (int, error) {
	return s.decodeBytesInto(byteStringMajorType, offset, out)
}

// DecodeTextString reads a major type 3 text string at offset into out, NUL
// terminated like DecodeByteString.
func (s *Stream) DecodeTextString(offset int, out []byte) (int, error) {
	return s.decodeBytesInto(textStringMajorType, offset, out)
}

// ByteString returns the payload of the major type 2 byte string at offset
// without copying, plus the total bytes consumed. The slice aliases the
// stream buffer and is invalidated by Clear, Truncate, and Destroy.
func (s *Stream) ByteString(offset int) ([]byte, int, error) {
	return s.decodeBytes(byteStringMajorType, offset)
}

// TextString returns the payload of the major type 3 text string at offset
// without copying, like ByteString.
func (s *Stream) TextString(offset int) ([]byte, int, error) {
	return s.decodeBytes(textStringMajorType, offset)
}

func (s *Stream) decodeBytes(majorType byte, offset int) ([]byte, int, error) {
	if s.AtEnd(offset) {
		return nil, 0, ErrTruncated
	}
	if s.data[offset]>>5 != majorType {
		return nil, 0, ErrTypeMismatch
	}

	length, n, err := s.decodeArgument(offset)
	if err != nil {
		return nil, 0, err
	}
	if length > math.MaxInt {
		return nil, 0, fmt.Errorf("%w: string at offset %d exceeds addressable length", ErrUnsupported, offset)
	}
	start := offset + n
	if int(length) > s.pos-start {
		return nil, 0, fmt.Errorf("%w: string payload at offset %d", ErrTruncated, offset)
	}
	return s.data[start : start+int(length)], n + int(length), nil
}

func (s *Stream) decodeBytesInto(majorType byte, offset int, out []byte) (int, error) {
	payload, n, err := s.decodeBytes(majorType, offset)
	if err != nil {
		return 0, err
	}
	if len(out) < len(payload)+1 {
		return 0, ErrOutputTooSmall
	}
	copy(out, payload)
	out[len(payload)] = 0x00
	return n, nil
}

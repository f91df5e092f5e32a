// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"fmt"
	"math"
)

// EncodeUint64 writes v as a major type 0 unsigned integer.
func (s *Stream) EncodeUint64(v uint64) (int, error) {
	return s.encodeArgument(unsignedIntMajorType, v)
}

// EncodeInt64 writes v as a major type 0 unsigned integer when v >= 0, and
// as a major type 1 negative integer with argument -1-v otherwise. The
// negation happens in unsigned arithmetic, so math.MinInt64 encodes without
// overflow.
func (s *Stream) EncodeInt64(v int64) (int, error) {
	if v >= 0 {
		return s.encodeArgument(unsignedIntMajorType, uint64(v))
	}
	return s.encodeArgument(negativeIntMajorType, uint64(-(v + 1)))
}

// EncodeInt writes v like EncodeInt64.
func (s *Stream) EncodeInt(v int) (int, error) {
	return s.EncodeInt64(int64(v))
}

// DecodeUint64 reads a major type 0 unsigned integer at offset.
func (s *Stream) DecodeUint64(offset int) (uint64, int, error) {
	if s.AtEnd(offset) {
		return 0, 0, ErrTruncated
	}
	if s.data[offset]>>5 != unsignedIntMajorType {
		return 0, 0, ErrTypeMismatch
	}
	return s.decodeArgument(offset)
}

// DecodeInt64 reads a major type 0 or 1 integer at offset and reconstructs
// the signed value. Arguments outside the int64 range refuse with
// ErrUnsupported.
func (s *Stream) DecodeInt64(offset int) (int64, int, error) {
	if s.AtEnd(offset) {
		return 0, 0, ErrTruncated
	}
	majorType := s.data[offset] >> 5
	if majorType != unsignedIntMajorType && majorType != negativeIntMajorType {
		return 0, 0, ErrTypeMismatch
	}

	arg, n, err := s.decodeArgument(offset)
	if err != nil {
		return 0, 0, err
	}
	if arg > math.MaxInt64 {
		return 0, 0, fmt.Errorf("%w: integer at offset %d overflows int64", ErrUnsupported, offset)
	}
	if majorType == unsignedIntMajorType {
		return int64(arg), n, nil
	}
	return -1 - int64(arg), n, nil
}

// DecodeInt reads a major type 0 or 1 integer at offset into the native int
// range.
func (s *Stream) DecodeInt(offset int) (int, int, error) {
	v, n, err := s.DecodeInt64(offset)
	if err != nil {
		return 0, 0, err
	}
	if v > math.MaxInt || v < math.MinInt {
		return 0, 0, fmt.Errorf("%w: integer at offset %d overflows int", ErrUnsupported, offset)
	}
	return int(v), n, nil
}

// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"encoding/binary"
	"fmt"
	"math"
)

// encodeFloatHalf converts a single-precision float to the IEEE 754 binary16
// bit pattern with round-half-up, preserving signed zero, infinities, and
// NaN-ness.
func encodeFloatHalf(f float32) uint16 {
	i := math.Float32bits(f)

	bits := uint16(i>>16) & 0x8000 // sign
	m := uint16(i>>12) & 0x07ff    // mantissa with one extra bit for rounding
	e := (i >> 23) & 0xff          // biased single exponent

	// Zero, or an exponent that underflows below even a denormal half.
	if e < 103 {
		return bits
	}

	// Infinity, or exponent overflow. If the single was NaN, at least one
	// mantissa bit must survive to keep it distinct from infinity.
	if e > 142 {
		bits |= 0x7c00
		if e == 255 && i&0x007fffff != 0 {
			bits |= 1
		}
		return bits
	}

	// Denormal half. Rounding may overflow into mantissa 0, exponent 1,
	// which is the correct neighboring normal value.
	if e < 113 {
		m |= 0x0800
		bits |= (m >> (114 - e)) + ((m >> (113 - e)) & 1)
		return bits
	}

	bits |= uint16(e-112)<<10 | m>>1
	// Rounding overflow increments the exponent, which is the correct
	// neighboring value here too.
	bits += m & 1
	return bits
}

// decodeFloatHalf expands an IEEE 754 binary16 bit pattern to float64. A
// zero exponent covers zero and denormals uniformly via ldexp.
func decodeFloatHalf(half uint16) float64 {
	exp := int(half>>10) & 0x1f
	mant := float64(half & 0x03ff)

	var val float64
	switch {
	case exp == 0:
		val = math.Ldexp(mant, -24)
	case exp != 31:
		val = math.Ldexp(mant+1024, exp-25)
	case mant == 0:
		val = math.Inf(1)
	default:
		val = math.NaN()
	}

	if half&0x8000 != 0 {
		return -val
	}
	return val
}

// EncodeFloat16 writes v as a half-precision float: 0xf9 followed by the two
// big-endian bytes of the converted bit pattern. Values outside the half
// range round to infinity; NaN stays NaN.
func (s *Stream) EncodeFloat16(v float32) (int, error) {
	if !s.fits(3) {
		return 0, ErrCapacity
	}
	s.data[s.pos] = float16Byte
	binary.BigEndian.PutUint16(s.data[s.pos+1:], encodeFloatHalf(v))
	s.pos += 3
	return 3, nil
}

// EncodeFloat32 writes v as 0xfa followed by the four big-endian bytes of
// the single-precision bit pattern.
func (s *Stream) EncodeFloat32(v float32) (int, error) {
	if !s.fits(5) {
		return 0, ErrCapacity
	}
	s.data[s.pos] = float32Byte
	binary.BigEndian.PutUint32(s.data[s.pos+1:], math.Float32bits(v))
	s.pos += 5
	return 5, nil
}

// EncodeFloat64 writes v as 0xfb followed by the eight big-endian bytes of
// the double-precision bit pattern.
func (s *Stream) EncodeFloat64(v float64) (int, error) {
	if !s.fits(9) {
		return 0, ErrCapacity
	}
	s.data[s.pos] = float64Byte
	binary.BigEndian.PutUint64(s.data[s.pos+1:], math.Float64bits(v))
	s.pos += 9
	return 9, nil
}

// DecodeFloat16 reads a half-precision float at offset. The initial byte
// must be exactly 0xf9.
func (s *Stream) DecodeFloat16(offset int) (float32, int, error) {
	if err := s.checkFloat(float16Byte, offset, 3); err != nil {
		return 0, 0, err
	}
	half := binary.BigEndian.Uint16(s.data[offset+1:])
	return float32(decodeFloatHalf(half)), 3, nil
}

// DecodeFloat32 reads a single-precision float at offset. The initial byte
// must be exactly 0xfa.
func (s *Stream) DecodeFloat32(offset int) (float32, int, error) {
	if err := s.checkFloat(float32Byte, offset, 5); err != nil {
		return 0, 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(s.data[offset+1:])), 5, nil
}

// DecodeFloat64 reads a double-precision float at offset. The initial byte
// must be exactly 0xfb.
func (s *Stream) DecodeFloat64(offset int) (float64, int, error) {
	if err := s.checkFloat(float64Byte, offset, 9); err != nil {
		return 0, 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(s.data[offset+1:])), 9, nil
}

func (s *Stream) checkFloat(want byte, offset, size int) error {
	if s.AtEnd(offset) {
		return ErrTruncated
	}
	if s.data[offset] != want {
		return ErrTypeMismatch
	}
	if offset+size > s.pos {
		return fmt.Errorf("%w: float payload at offset %d", ErrTruncated, offset)
	}
	return nil
}

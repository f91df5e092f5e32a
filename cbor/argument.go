// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor

import "encoding/binary"

// argumentSize returns the total header length the shortest-form rule picks
// for arg: 1, 2, 3, 5, or 9 bytes.
func argumentSize(arg uint64) int {
	switch {
	case arg <= 23:
		return 1
	case arg <= 0xff:
		return 2
	case arg <= 0xffff:
		return 3
	case arg <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// encodeArgument writes the initial byte plus the big-endian argument for
// majorType, always in shortest form. It writes nothing and refuses when the
// header does not fit.
func (s *Stream) encodeArgument(majorType byte, arg uint64) (int, error) {
	n := argumentSize(arg)
	if !s.fits(n) {
		return 0, ErrCapacity
	}
	head := majorType << 5
	switch n {
	case 1:
		s.data[s.pos] = head | byte(arg)
	case 2:
		s.data[s.pos] = head | oneByteAdditional
		s.data[s.pos+1] = byte(arg)
	case 3:
		s.data[s.pos] = head | twoBytesAdditional
		binary.BigEndian.PutUint16(s.data[s.pos+1:], uint16(arg))
	case 5:
		s.data[s.pos] = head | fourBytesAdditional
		binary.BigEndian.PutUint32(s.data[s.pos+1:], uint32(arg))
	case 9:
		s.data[s.pos] = head | eightBytesAdditional
		binary.BigEndian.PutUint64(s.data[s.pos+1:], arg)
	}
	s.pos += n
	return n, nil
}

// decodeArgument reads the argument embedded in or following the initial
// byte at offset. Non-shortest encodings are accepted. Additional info 28..31
// is not a length-bearing argument (reserved, indefinite, or break) and
// refuses with ErrTypeMismatch; the caller handles those forms itself.
func (s *Stream) decodeArgument(offset int) (uint64, int, error) {
	if s.AtEnd(offset) {
		return 0, 0, ErrTruncated
	}
	info := s.data[offset] & fiveBitMask
	if info < oneByteAdditional {
		return uint64(info), 1, nil
	}

	var n int
	switch info {
	case oneByteAdditional:
		n = 2
	case twoBytesAdditional:
		n = 3
	case fourBytesAdditional:
		n = 5
	case eightBytesAdditional:
		n = 9
	default:
		return 0, 0, ErrTypeMismatch
	}
	if offset+n > s.pos {
		return 0, 0, ErrTruncated
	}

	switch info {
	case oneByteAdditional:
		return uint64(s.data[offset+1]), n, nil
	case twoBytesAdditional:
		return uint64(binary.BigEndian.Uint16(s.data[offset+1:])), n, nil
	case fourBytesAdditional:
		return uint64(binary.BigEndian.Uint32(s.data[offset+1:])), n, nil
	default:
		return binary.BigEndian.Uint64(s.data[offset+1:]), n, nil
	}
}

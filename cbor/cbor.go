// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor

import "errors"

// Major types (high 3 bits)
const (
	unsignedIntMajorType byte = 0x00
	negativeIntMajorType byte = 0x01
	byteStringMajorType  byte = 0x02
	textStringMajorType  byte = 0x03
	arrayMajorType       byte = 0x04
	mapMajorType         byte = 0x05
	tagMajorType         byte = 0x06
	simpleMajorType      byte = 0x07
)

// Additional info (low 5 bits)
const (
	oneByteAdditional    byte = 0x18
	twoBytesAdditional   byte = 0x19
	fourBytesAdditional  byte = 0x1a
	eightBytesAdditional byte = 0x1b
	indefiniteAdditional byte = 0x1f
)

// Well-known simple values
const (
	falseVal    byte = 0x14
	trueVal     byte = 0x15
	halfFloat   byte = 0x19
	singleFloat byte = 0x1a
	doubleFloat byte = 0x1b
)

// Fully composed initial bytes for one-byte items
const (
	falseByte      byte = simpleMajorType<<5 | falseVal
	trueByte       byte = simpleMajorType<<5 | trueVal
	float16Byte    byte = simpleMajorType<<5 | halfFloat
	float32Byte    byte = simpleMajorType<<5 | singleFloat
	float64Byte    byte = simpleMajorType<<5 | doubleFloat
	breakByte      byte = simpleMajorType<<5 | indefiniteAdditional
	indefArrayByte byte = arrayMajorType<<5 | indefiniteAdditional
	indefMapByte   byte = mapMajorType<<5 | indefiniteAdditional
)

// Bitmasks
const (
	fiveBitMask byte = 0x1f
)

// Sentinel errors returned by serializers and deserializers. A failed call
// always reports zero bytes produced or consumed alongside one of these,
// possibly wrapped with offset context.
var (
	// ErrCapacity means a write would cross the end of the stream buffer.
	ErrCapacity = errors.New("cbor: stream capacity exhausted")
	// ErrTypeMismatch means the initial byte at the offset does not carry
	// the major type (or exact item) the deserializer was asked for.
	ErrTypeMismatch = errors.New("cbor: major type mismatch")
	// ErrTruncated means an argument or payload extends past the encoded
	// region of the stream.
	ErrTruncated = errors.New("cbor: truncated item")
	// ErrOutputTooSmall means a string deserialization target cannot hold
	// the payload plus its NUL terminator.
	ErrOutputTooSmall = errors.New("cbor: output buffer too small")
	// ErrUnsupported means the value is outside the supported domain, such
	// as a negative epoch for tag 1 or an integer that overflows the
	// requested Go type.
	ErrUnsupported = errors.New("cbor: unsupported value")
)

// Stream is a fixed-capacity byte window with a write cursor. The cursor
// (the "position") is the index of the next free byte and also the number of
// bytes currently holding encoded data.
//
// A Stream is not safe for concurrent use. Distinct streams may be used
// concurrently without coordination.
type Stream struct {
	data []byte
	pos  int
}

// New returns a Stream over an internally acquired region of size bytes.
func New(size int) *Stream {
	return &Stream{data: make([]byte, size)}
}

// NewFromBuffer returns an empty Stream that borrows buf as its backing
// region. The Stream does not reallocate or grow the buffer; encoded bytes
// land in buf directly.
func NewFromBuffer(buf []byte) *Stream {
	return &Stream{data: buf}
}

// NewFromEncoded returns a Stream that borrows data as an already-encoded
// region, with the position set past the final byte. This is the reading
// counterpart of NewFromBuffer.
func NewFromEncoded(data []byte) *Stream {
	return &Stream{data: data, pos: len(data)}
}

// Clear resets the position to 0. The buffer contents are not zeroed.
func (s *Stream) Clear() { s.pos = 0 }

// Destroy drops the backing region and zeroes all fields. For an internally
// acquired region this releases the only reference; a borrowed buffer is
// returned to the caller's sole ownership. The Stream must not be used
// afterwards.
func (s *Stream) Destroy() {
	s.data = nil
	s.pos = 0
}

// Len returns the current position: the number of encoded bytes.
func (s *Stream) Len() int { return s.pos }

// Size returns the total capacity of the backing region.
func (s *Stream) Size() int { return len(s.data) }

// Bytes returns the encoded region. The slice aliases the backing buffer and
// is invalidated by Clear, Truncate, and Destroy.
func (s *Stream) Bytes() []byte { return s.data[:s.pos] }

// Truncate rewinds the position to n, which must not exceed the current
// position. Together with Len it gives callers transactional writes: snapshot
// Len, attempt a multi-item encode, and Truncate back on failure.
func (s *Stream) Truncate(n int) {
	if n < 0 || n > s.pos {
		panic("cbor: truncation target outside the encoded region")
	}
	s.pos = n
}

// AtEnd reports whether no further items remain at offset. The convention is
// offset >= position, i.e. the position itself (the next free byte) is end of
// data.
func (s *Stream) AtEnd(offset int) bool {
	return s == nil || offset < 0 || offset >= s.pos
}

// AtBreak reports whether the item at offset is the break stop code closing
// an indefinite container, or the stream has no further items.
func (s *Stream) AtBreak(offset int) bool {
	return s.AtEnd(offset) || s.data[offset] == breakByte
}

// AtTag reports whether the item at offset is a semantic tag, or the stream
// has no further items.
func (s *Stream) AtTag(offset int) bool {
	return s.AtEnd(offset) || s.data[offset]>>5 == tagMajorType
}

// MajorType returns the major type (0..7) of the item at offset.
func (s *Stream) MajorType(offset int) (byte, error) {
	if s.AtEnd(offset) {
		return 0, ErrTruncated
	}
	return s.data[offset] >> 5, nil
}

// InitialByte returns the complete initial byte of the item at offset.
func (s *Stream) InitialByte(offset int) (byte, error) {
	if s.AtEnd(offset) {
		return 0, ErrTruncated
	}
	return s.data[offset], nil
}

// fits reports whether n more bytes can be written at the cursor. Every
// serializer funnels its bounds check through here.
func (s *Stream) fits(n int) bool {
	return s != nil && s.pos+n <= len(s.data)
}

// writeByte appends a single fully composed initial byte.
func (s *Stream) writeByte(b byte) (int, error) {
	if !s.fits(1) {
		return 0, ErrCapacity
	}
	s.data[s.pos] = b
	s.pos++
	return 1, nil
}

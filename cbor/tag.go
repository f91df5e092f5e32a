// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"fmt"
	"math"
	"time"
)

// Standard date/time tag numbers (RFC 7049 section 2.4.1).
const (
	// DateTimeStringTag prefixes an RFC 3339 text string.
	DateTimeStringTag uint64 = 0
	// DateTimeEpochTag prefixes an epoch-seconds unsigned integer.
	DateTimeEpochTag uint64 = 1
)

// dateTimeLayout formats to exactly 20 characters for a UTC time.
const dateTimeLayout = "2006-01-02T15:04:05Z07:00"

// WriteTag writes a semantic tag header. The tagged item is written
// immediately after as its own encoding. Tags 0..23 use the single-byte
// form; larger tags use the multi-byte argument form.
func (s *Stream) WriteTag(tag uint64) (int, error) {
	return s.encodeArgument(tagMajorType, tag)
}

// DecodeTag reads a major type 6 tag header at offset and returns the tag
// number. The tagged item follows at offset plus the consumed count.
func (s *Stream) DecodeTag(offset int) (uint64, int, error) {
	if s.AtEnd(offset) {
		return 0, 0, ErrTruncated
	}
	if s.data[offset]>>5 != tagMajorType {
		return 0, 0, ErrTypeMismatch
	}
	return s.decodeArgument(offset)
}

// EncodeDateTime writes t as tag 0 followed by a 20-character RFC 3339 UTC
// text string. On failure the stream is restored to its prior position.
func (s *Stream) EncodeDateTime(t time.Time) (int, error) {
	mark := s.pos
	tagN, err := s.WriteTag(DateTimeStringTag)
	if err != nil {
		return 0, err
	}
	strN, err := s.EncodeTextString(t.UTC().Format(dateTimeLayout))
	if err != nil {
		s.Truncate(mark)
		return 0, err
	}
	return tagN + strN, nil
}

// DecodeDateTime reads a tag 0 date/time string at offset. Any tag other
// than 0 refuses with ErrTypeMismatch.
func (s *Stream) DecodeDateTime(offset int) (time.Time, int, error) {
	tag, tagN, err := s.DecodeTag(offset)
	if err != nil {
		return time.Time{}, 0, err
	}
	if tag != DateTimeStringTag {
		return time.Time{}, 0, fmt.Errorf("%w: expected date/time string tag, got tag %d", ErrTypeMismatch, tag)
	}

	payload, strN, err := s.TextString(offset + tagN)
	if err != nil {
		return time.Time{}, 0, err
	}
	t, err := time.Parse(time.RFC3339, string(payload))
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: date/time string at offset %d: %v", ErrUnsupported, offset, err)
	}
	return t, tagN + strN, nil
}

// EncodeEpochDateTime writes t as tag 1 followed by epoch seconds as an
// unsigned integer. Times before the epoch refuse with ErrUnsupported.
func (s *Stream) EncodeEpochDateTime(t time.Time) (int, error) {
	sec := t.Unix()
	if sec < 0 {
		return 0, fmt.Errorf("%w: negative epoch seconds", ErrUnsupported)
	}

	mark := s.pos
	tagN, err := s.WriteTag(DateTimeEpochTag)
	if err != nil {
		return 0, err
	}
	intN, err := s.EncodeUint64(uint64(sec))
	if err != nil {
		s.Truncate(mark)
		return 0, err
	}
	return tagN + intN, nil
}

// DecodeEpochDateTime reads a tag 1 epoch date/time at offset.
func (s *Stream) DecodeEpochDateTime(offset int) (time.Time, int, error) {
	tag, tagN, err := s.DecodeTag(offset)
	if err != nil {
		return time.Time{}, 0, err
	}
	if tag != DateTimeEpochTag {
		return time.Time{}, 0, fmt.Errorf("%w: expected epoch date/time tag, got tag %d", ErrTypeMismatch, tag)
	}

	sec, intN, err := s.DecodeUint64(offset + tagN)
	if err != nil {
		return time.Time{}, 0, err
	}
	if sec > math.MaxInt64 {
		return time.Time{}, 0, fmt.Errorf("%w: epoch seconds at offset %d overflow int64", ErrUnsupported, offset)
	}
	return time.Unix(int64(sec), 0).UTC(), tagN + intN, nil
}

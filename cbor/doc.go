// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

/*
Package cbor implements an in-place, no-allocation RFC 7049 Concise Binary
Object Representation codec for constrained environments.

Unlike reflection-based CBOR packages, this codec never materializes decoded
items as an object model. Serializers append wire bytes to a fixed-capacity
[Stream]; deserializers read back from a byte offset and report how many bytes
they consumed. The caller owns all buffers.

	buf := make([]byte, 128)
	s := cbor.NewFromBuffer(buf)

	_, _ = s.EncodeArray(3)
	_, _ = s.EncodeInt(1)
	_, _ = s.EncodeTextString("hello")
	_, _ = s.EncodeFloat16(1.5)

Decoding is cursor-style. Each deserializer checks the major type at the
given offset and refuses (zero consumed plus a sentinel error) on a mismatch:

	v, n, err := s.DecodeInt(0)

Indefinite-length arrays and maps are written with
[Stream.EncodeIndefiniteArray] / [Stream.EncodeIndefiniteMap], terminated by
[Stream.WriteBreak], and iterated with [Stream.AtBreak].

Supported:

  - Unsigned and negative integers up to 64 bits, shortest-form encoded
  - Byte strings and UTF-8 text strings (content is not validated)
  - Definite and indefinite length arrays and maps
  - Semantic tags, including the RFC 3339 (tag 0) and epoch (tag 1)
    date/time tags
  - false and true
  - IEEE 754 half, single, and double precision floats

Not supported:

  - Dynamic growth of the output buffer
  - Canonical map key ordering
  - Streaming I/O; the stream is a fixed byte window

Failure semantics follow the constrained-device convention: every encode and
decode reports the byte count it produced or consumed, and a count of zero
means refusal. The accompanying error is one of [ErrCapacity],
[ErrTypeMismatch], [ErrTruncated], [ErrOutputTooSmall], or [ErrUnsupported],
possibly wrapped with offset context. A refused encode writes nothing; a
refused decode reads nothing. Callers composing multi-item writes can
snapshot [Stream.Len] and restore via [Stream.Truncate] for transactional
behavior.

The decoder is permissive: non-shortest argument encodings are accepted
everywhere, while the encoder always emits the shortest form.
*/
package cbor

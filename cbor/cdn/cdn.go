// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

/*
Package cdn implements CBOR Diagnostic Notation over the stream codec.

CBOR is a binary interchange format. To facilitate documentation and
debugging, and in particular to facilitate communication between entities
cooperating in debugging, RFC 8949 defines a simple human-readable diagnostic
notation. All actual interchange always happens in the binary format.

Only base16 notation is supported for binary values.

	h'12345678' // supported
	b32'CI2FM6A' or b64'EjRWeA' // not supported

Rendering is permissive: null, undefined, and unassigned simple values in
the input render as "null", "undefined", and "simple(N)"; the reserved
one-byte forms 0xfc..0xfe are rejected with ErrInvalidInput. Parsing is
restricted to the codec's encoding domain, so null, undefined, and simple(N)
are rejected by ToCBOR.

Example:

	s, _ := cdn.FromCBOR(cborBytes)

	cborBytes, _ := cdn.ToCBOR(s)
*/
package cdn

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/fido-device-onboard/cborstream/cbor"
)

// Sentinel errors
var (
	ErrInvalidInput        = errors.New("cdn: unexpected input")
	ErrInvalidEncodingType = errors.New("cdn: invalid encoding type")
)

// encodeLimit caps the buffer growth when marshaling diagnostic notation
// into a fixed-capacity stream.
const encodeLimit = 1 << 20

// FromCBOR re-encodes CBOR bytes as a diagnostic string. Multiple top-level
// items render comma separated.
func FromCBOR(c []byte) (string, error) {
	return FromStream(cbor.NewFromEncoded(c))
}

// FromStream renders the encoded region of s as a diagnostic string, walking
// the stream with offsets only.
func FromStream(s *cbor.Stream) (string, error) {
	var b strings.Builder
	for offset := 0; !s.AtEnd(offset); {
		if offset > 0 {
			b.WriteString(", ")
		}
		n, err := renderItem(&b, s, offset, cbor.DefaultMaxDepth)
		if err != nil {
			return "", err
		}
		offset += n
	}
	return b.String(), nil
}

// ToCBOR marshals a diagnostic string into CBOR.
func ToCBOR(s string) ([]byte, error) {
	v, err := decodeValue(bufio.NewReader(strings.NewReader(s)))
	if err != nil {
		return nil, err
	}

	// Retry with a larger stream until the encoding fits.
	for size := 256; size <= encodeLimit; size *= 2 {
		st := cbor.New(size)
		if _, err := encodeValue(st, v); err != nil {
			if errors.Is(err, cbor.ErrCapacity) {
				continue
			}
			return nil, err
		}
		out := make([]byte, st.Len())
		copy(out, st.Bytes())
		return out, nil
	}
	return nil, cbor.ErrCapacity
}

// Parsed value forms that need to stay distinguishable until encoding.
type (
	tagged struct {
		num uint64
		val any
	}
	pair struct {
		key, val any
	}
	mapValue      []pair
	indefArray    []any
	indefMapValue []pair
)

// renderItem writes the diagnostic form of the item at offset and returns
// the stream bytes it covered.
func renderItem(b *strings.Builder, s *cbor.Stream, offset, depth int) (int, error) { //nolint:gocyclo
	if depth <= 0 {
		return 0, fmt.Errorf("%w: nesting exceeds depth limit", ErrInvalidInput)
	}

	ib, err := s.InitialByte(offset)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	switch ib >> 5 {
	case 0:
		v, n, err := s.DecodeUint64(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.WriteString(strconv.FormatUint(v, 10))
		return n, nil

	case 1:
		v, n, err := s.DecodeInt64(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.WriteString(strconv.FormatInt(v, 10))
		return n, nil

	case 2:
		payload, n, err := s.ByteString(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.WriteString("h'")
		b.WriteString(hex.EncodeToString(payload))
		b.WriteString("'")
		return n, nil

	case 3:
		payload, n, err := s.TextString(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		quoted, err := json.Marshal(string(payload))
		if err != nil {
			return 0, err
		}
		b.Write(quoted)
		return n, nil

	case 4:
		return renderArray(b, s, offset, depth)

	case 5:
		return renderMap(b, s, offset, depth)

	case 6:
		num, n, err := s.DecodeTag(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.WriteString(strconv.FormatUint(num, 10))
		b.WriteString("(")
		inner, err := renderItem(b, s, offset+n, depth-1)
		if err != nil {
			return 0, err
		}
		b.WriteString(")")
		return n + inner, nil

	default:
		return renderSimple(b, s, offset, ib)
	}
}

func renderSimple(b *strings.Builder, s *cbor.Stream, offset int, ib byte) (int, error) {
	switch ib {
	case 0xf4:
		b.WriteString("false")
		return 1, nil
	case 0xf5:
		b.WriteString("true")
		return 1, nil
	case 0xf6:
		b.WriteString("null")
		return 1, nil
	case 0xf7:
		b.WriteString("undefined")
		return 1, nil
	case 0xf9:
		v, n, err := s.DecodeFloat16(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.WriteString(formatFloat(float64(v), 32))
		return n, nil
	case 0xfa:
		v, n, err := s.DecodeFloat32(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.WriteString(formatFloat(float64(v), 32))
		return n, nil
	case 0xfb:
		v, n, err := s.DecodeFloat64(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		b.WriteString(formatFloat(v, 64))
		return n, nil
	case 0xff:
		return 0, fmt.Errorf("%w: break without an open indefinite container", ErrInvalidInput)
	}

	if ib&0x1f < 0x18 {
		fmt.Fprintf(b, "simple(%d)", ib&0x1f)
		return 1, nil
	}
	if ib == 0xf8 {
		next, err := s.InitialByte(offset + 1)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		fmt.Fprintf(b, "simple(%d)", next)
		return 2, nil
	}
	return 0, fmt.Errorf("%w: reserved simple value 0x%02x", ErrInvalidInput, ib)
}

func renderArray(b *strings.Builder, s *cbor.Stream, offset, depth int) (int, error) {
	ib, _ := s.InitialByte(offset)
	indefinite := ib == 0x9f

	var length uint64
	var readBytes int
	b.WriteString("[")
	if indefinite {
		b.WriteString("_ ")
		n, err := s.DecodeIndefiniteArray(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		readBytes = n
	} else {
		var n int
		var err error
		length, n, err = s.DecodeArray(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		readBytes = n
	}
	offset += readBytes

	for i := uint64(0); indefinite || i < length; i++ {
		if indefinite && s.AtBreak(offset) {
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		n, err := renderItem(b, s, offset, depth-1)
		if err != nil {
			return 0, err
		}
		offset += n
		readBytes += n
	}

	if indefinite {
		if s.AtEnd(offset) {
			return 0, fmt.Errorf("%w: unterminated indefinite array", ErrInvalidInput)
		}
		readBytes++
	}
	b.WriteString("]")
	return readBytes, nil
}

func renderMap(b *strings.Builder, s *cbor.Stream, offset, depth int) (int, error) {
	ib, _ := s.InitialByte(offset)
	indefinite := ib == 0xbf

	var length uint64
	var readBytes int
	b.WriteString("{")
	if indefinite {
		b.WriteString("_ ")
		n, err := s.DecodeIndefiniteMap(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		readBytes = n
	} else {
		var n int
		var err error
		length, n, err = s.DecodeMap(offset)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		readBytes = n
	}
	offset += readBytes

	for i := uint64(0); indefinite || i < length; i++ {
		if indefinite && s.AtBreak(offset) {
			break
		}
		if i > 0 {
			b.WriteString(", ")
		}
		keyBytes, err := renderItem(b, s, offset, depth-1)
		if err != nil {
			return 0, err
		}
		offset += keyBytes
		b.WriteString(": ")
		valueBytes, err := renderItem(b, s, offset, depth-1)
		if err != nil {
			return 0, err
		}
		offset += valueBytes
		readBytes += keyBytes + valueBytes
	}

	if indefinite {
		if s.AtEnd(offset) {
			return 0, fmt.Errorf("%w: unterminated indefinite map", ErrInvalidInput)
		}
		readBytes++
	}
	b.WriteString("}")
	return readBytes, nil
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	str := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(str, ".eE") {
		str += ".0"
	}
	return str
}

// encodeValue writes a parsed diagnostic value to the stream and returns the
// bytes written.
func encodeValue(st *cbor.Stream, v any) (int, error) { //nolint:gocyclo
	switch v := v.(type) {
	case uint64:
		return st.EncodeUint64(v)
	case int64:
		return st.EncodeInt64(v)
	case float64:
		return st.EncodeFloat64(v)
	case []byte:
		return st.EncodeByteString(v)
	case string:
		return st.EncodeTextString(v)
	case bool:
		return st.EncodeBool(v)

	case tagged:
		tagN, err := st.WriteTag(v.num)
		if err != nil {
			return 0, err
		}
		valN, err := encodeValue(st, v.val)
		if err != nil {
			return 0, err
		}
		return tagN + valN, nil

	case []any:
		total, err := st.EncodeArray(uint64(len(v)))
		if err != nil {
			return 0, err
		}
		for _, item := range v {
			n, err := encodeValue(st, item)
			if err != nil {
				return 0, err
			}
			total += n
		}
		return total, nil

	case indefArray:
		total, err := st.EncodeIndefiniteArray()
		if err != nil {
			return 0, err
		}
		for _, item := range v {
			n, err := encodeValue(st, item)
			if err != nil {
				return 0, err
			}
			total += n
		}
		n, err := st.WriteBreak()
		if err != nil {
			return 0, err
		}
		return total + n, nil

	case mapValue:
		total, err := st.EncodeMap(uint64(len(v)))
		if err != nil {
			return 0, err
		}
		return encodePairs(st, total, v, nil)

	case indefMapValue:
		total, err := st.EncodeIndefiniteMap()
		if err != nil {
			return 0, err
		}
		return encodePairs(st, total, v, st.WriteBreak)
	}

	return 0, ErrInvalidEncodingType
}

func encodePairs(st *cbor.Stream, total int, pairs []pair, closer func() (int, error)) (int, error) {
	for _, p := range pairs {
		n, err := encodeValue(st, p.key)
		if err != nil {
			return 0, err
		}
		total += n
		n, err = encodeValue(st, p.val)
		if err != nil {
			return 0, err
		}
		total += n
	}
	if closer != nil {
		n, err := closer()
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// decodeValue parses a single diagnostic value from r.
func decodeValue(r *bufio.Reader) (any, error) {
	if err := discardSpaces(r); err != nil {
		return nil, err
	}

	b, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if err := r.UnreadByte(); err != nil {
		return nil, err
	}

	switch {
	case b == '[':
		return decodeArray(r)
	case b == '{':
		return decodeMap(r)
	case b == '"':
		return decodeString(r)
	case b == 't':
		return true, expectWord(r, "true")
	case b == 'f':
		return false, expectWord(r, "false")
	case b == 'h':
		return decodeHex(r)
	case b == '-' || isDigit(b):
		return decodeNumber(r)
	}

	return nil, ErrInvalidInput
}

func expectWord(r *bufio.Reader, word string) error {
	b := make([]byte, len(word))
	if _, err := io.ReadFull(r, b); err != nil {
		return err
	}
	if string(b) != word {
		return ErrInvalidInput
	}
	return nil
}

// decodeNumber scans an optionally signed decimal, classifies it as uint64,
// int64, or float64, and checks for a tag's open paren after an unsigned
// integer.
func decodeNumber(r *bufio.Reader) (any, error) {
	var buf strings.Builder
	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if !isDigit(b) && b != '-' && b != '.' {
			if err := r.UnreadByte(); err != nil {
				return nil, err
			}
			break
		}
		buf.WriteByte(b)
	}
	text := buf.String()

	if strings.Contains(text, ".") {
		return strconv.ParseFloat(text, 64)
	}
	if strings.HasPrefix(text, "-") {
		return strconv.ParseInt(text, 10, 64)
	}

	num, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return nil, err
	}
	return maybeDecodeTag(num, r)
}

// maybeDecodeTag checks whether num is the start of a tag by looking for an
// open paren.
func maybeDecodeTag(num uint64, r *bufio.Reader) (any, error) {
	d, err := r.ReadByte()
	if errors.Is(err, io.EOF) {
		return num, nil
	}
	if err != nil {
		return nil, err
	}
	if d != '(' {
		return num, r.UnreadByte()
	}

	v, err := decodeValue(r)
	if err != nil {
		return nil, err
	}
	if err := decodeDelim(r, ')'); err != nil {
		return nil, err
	}
	return tagged{num: num, val: v}, nil
}

func decodeString(r *bufio.Reader) (any, error) {
	if _, err := r.ReadString('"'); err != nil {
		return nil, err
	}
	s, err := r.ReadString('"')
	if err != nil {
		return nil, err
	}
	return s[:len(s)-1], nil
}

func decodeHex(r *bufio.Reader) (any, error) {
	prefix, err := r.ReadString('\'')
	if err != nil {
		return nil, err
	}
	if prefix != "h'" {
		return nil, ErrInvalidInput
	}

	s, err := r.ReadString('\'')
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(s[:len(s)-1])
}

func decodeArray(r *bufio.Reader) (any, error) {
	if _, err := r.ReadString('['); err != nil {
		return nil, err
	}
	indefinite, err := consumeIndefiniteMarker(r)
	if err != nil {
		return nil, err
	}

	var a []any
	for {
		end, err := atDelim(r, ']')
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		if len(a) > 0 {
			if err := decodeDelim(r, ','); err != nil {
				return nil, err
			}
		}

		v, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		a = append(a, v)
	}

	if indefinite {
		return indefArray(a), nil
	}
	if a == nil {
		a = []any{}
	}
	return a, nil
}

func decodeMap(r *bufio.Reader) (any, error) {
	if _, err := r.ReadString('{'); err != nil {
		return nil, err
	}
	indefinite, err := consumeIndefiniteMarker(r)
	if err != nil {
		return nil, err
	}

	var m []pair
	for {
		end, err := atDelim(r, '}')
		if err != nil {
			return nil, err
		}
		if end {
			break
		}
		if len(m) > 0 {
			if err := decodeDelim(r, ','); err != nil {
				return nil, err
			}
		}

		k, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		if err := decodeDelim(r, ':'); err != nil {
			return nil, err
		}
		v, err := decodeValue(r)
		if err != nil {
			return nil, err
		}
		m = append(m, pair{key: k, val: v})
	}

	if indefinite {
		return indefMapValue(m), nil
	}
	return mapValue(m), nil
}

// consumeIndefiniteMarker eats the "_" that follows the opening bracket of
// an indefinite-length container.
func consumeIndefiniteMarker(r *bufio.Reader) (bool, error) {
	if err := discardSpaces(r); err != nil {
		return false, err
	}
	b, err := r.ReadByte()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if b != '_' {
		return false, r.UnreadByte()
	}
	return true, nil
}

// atDelim reports whether the next non-space byte is d, consuming it if so.
func atDelim(r *bufio.Reader, d byte) (bool, error) {
	if err := discardSpaces(r); err != nil {
		return false, err
	}
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	if b != d {
		return false, r.UnreadByte()
	}
	return true, nil
}

func decodeDelim(r *bufio.Reader, d byte) error {
	if err := discardSpaces(r); err != nil {
		return err
	}
	b, err := r.ReadByte()
	if err != nil {
		return err
	}
	if d != b {
		return ErrInvalidInput
	}
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func discardSpaces(r *bufio.Reader) error {
	for {
		b, err := r.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !unicode.IsSpace(rune(b)) {
			return r.UnreadByte()
		}
	}
}

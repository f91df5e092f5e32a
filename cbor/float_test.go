// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache 2.0

package cbor_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/fido-device-onboard/cborstream/cbor"
)

func TestEncodeFloat16(t *testing.T) {
	for _, test := range []struct {
		input  float32
		expect []byte
	}{
		{input: 0.0, expect: []byte{0xf9, 0x00, 0x00}},
		{input: float32(math.Copysign(0, -1)), expect: []byte{0xf9, 0x80, 0x00}},
		{input: 1.0, expect: []byte{0xf9, 0x3c, 0x00}},
		{input: 1.5, expect: []byte{0xf9, 0x3e, 0x00}},
		{input: -4.0, expect: []byte{0xf9, 0xc4, 0x00}},
		{input: 65504.0, expect: []byte{0xf9, 0x7b, 0xff}},
		{input: 0.00006103515625, expect: []byte{0xf9, 0x04, 0x00}},
		{input: 5.960464477539063e-8, expect: []byte{0xf9, 0x00, 0x01}},
		{input: float32(math.Inf(1)), expect: []byte{0xf9, 0x7c, 0x00}},
		{input: float32(math.Inf(-1)), expect: []byte{0xf9, 0xfc, 0x00}},
		// Exponent overflow rounds to infinity.
		{input: 100000.0, expect: []byte{0xf9, 0x7c, 0x00}},
		{input: 1e38, expect: []byte{0xf9, 0x7c, 0x00}},
	} {
		s := cbor.New(3)
		n, err := s.EncodeFloat16(test.input)
		if err != nil {
			t.Errorf("error encoding %f: %v", test.input, err)
			continue
		}
		if n != 3 || !bytes.Equal(s.Bytes(), test.expect) {
			t.Errorf("encoding %f; expected % x, got % x", test.input, test.expect, s.Bytes())
		}
	}
}

func TestDecodeFloat16(t *testing.T) {
	for _, test := range []struct {
		data   []byte
		expect float32
	}{
		{data: []byte{0xf9, 0x00, 0x00}, expect: 0.0},
		{data: []byte{0xf9, 0x3c, 0x00}, expect: 1.0},
		{data: []byte{0xf9, 0x3e, 0x00}, expect: 1.5},
		{data: []byte{0xf9, 0xc4, 0x00}, expect: -4.0},
		{data: []byte{0xf9, 0x7b, 0xff}, expect: 65504.0},
		{data: []byte{0xf9, 0x04, 0x00}, expect: 0.00006103515625},
		{data: []byte{0xf9, 0x00, 0x01}, expect: 5.960464477539063e-8},
	} {
		s := cbor.NewFromEncoded(test.data)
		got, n, err := s.DecodeFloat16(0)
		if err != nil {
			t.Errorf("error decoding % x: %v", test.data, err)
			continue
		}
		if n != 3 || got != test.expect {
			t.Errorf("decoding % x; expected %f, got %f", test.data, test.expect, got)
		}
	}

	t.Run("negative zero", func(t *testing.T) {
		s := cbor.NewFromEncoded([]byte{0xf9, 0x80, 0x00})
		got, _, err := s.DecodeFloat16(0)
		if err != nil {
			t.Fatalf("error decoding: %v", err)
		}
		if got != 0 || !math.Signbit(float64(got)) {
			t.Fatalf("expected -0, got %f", got)
		}
	})

	t.Run("infinities", func(t *testing.T) {
		s := cbor.NewFromEncoded([]byte{0xf9, 0x7c, 0x00})
		if got, _, _ := s.DecodeFloat16(0); !math.IsInf(float64(got), 1) {
			t.Errorf("expected +Inf, got %f", got)
		}
		s = cbor.NewFromEncoded([]byte{0xf9, 0xfc, 0x00})
		if got, _, _ := s.DecodeFloat16(0); !math.IsInf(float64(got), -1) {
			t.Errorf("expected -Inf, got %f", got)
		}
	})

	t.Run("truncated", func(t *testing.T) {
		s := cbor.NewFromEncoded([]byte{0xf9, 0x3c})
		if _, n, err := s.DecodeFloat16(0); n != 0 || !errors.Is(err, cbor.ErrTruncated) {
			t.Errorf("expected (0, ErrTruncated), got (%d, %v)", n, err)
		}
	})
}

func TestFloat16NaN(t *testing.T) {
	// NaN must stay NaN, not collapse to infinity. Bit-exactness is not
	// required.
	s := cbor.New(3)
	if _, err := s.EncodeFloat16(float32(math.NaN())); err != nil {
		t.Fatalf("error encoding NaN: %v", err)
	}

	encoded := s.Bytes()
	if exp := encoded[1] & 0x7c; exp != 0x7c {
		t.Fatalf("NaN encoded with a non-infinite exponent: % x", encoded)
	}
	if encoded[1]&0x03 == 0 && encoded[2] == 0 {
		t.Fatalf("NaN collapsed to infinity: % x", encoded)
	}

	got, _, err := s.DecodeFloat16(0)
	if err != nil {
		t.Fatalf("error decoding: %v", err)
	}
	if !math.IsNaN(float64(got)) {
		t.Fatalf("expected NaN, got %f", got)
	}
}

func TestFloat16Rounding(t *testing.T) {
	// Values between half-precision neighbors round half-up rather than
	// truncate.
	for _, test := range []struct {
		input  float32
		expect []byte
	}{
		{input: 1.0009765625, expect: []byte{0xf9, 0x3c, 0x01}},
		// 2049 is halfway between 2048 (0x6800) and 2050 (0x6801).
		{input: 2049, expect: []byte{0xf9, 0x68, 0x01}},
		{input: 2051, expect: []byte{0xf9, 0x68, 0x02}},
	} {
		s := cbor.New(3)
		if _, err := s.EncodeFloat16(test.input); err != nil {
			t.Errorf("error encoding %f: %v", test.input, err)
			continue
		}
		if !bytes.Equal(s.Bytes(), test.expect) {
			t.Errorf("encoding %f; expected % x, got % x", test.input, test.expect, s.Bytes())
		}
	}
}

func TestEncodeFloat32(t *testing.T) {
	for _, test := range []struct {
		input  float32
		expect []byte
	}{
		{input: 100000.0, expect: []byte{0xfa, 0x47, 0xc3, 0x50, 0x00}},
		{input: 3.4028234663852886e+38, expect: []byte{0xfa, 0x7f, 0x7f, 0xff, 0xff}},
		{input: 0.0, expect: []byte{0xfa, 0x00, 0x00, 0x00, 0x00}},
	} {
		s := cbor.New(5)
		n, err := s.EncodeFloat32(test.input)
		if err != nil {
			t.Errorf("error encoding %f: %v", test.input, err)
			continue
		}
		if n != 5 || !bytes.Equal(s.Bytes(), test.expect) {
			t.Errorf("encoding %f; expected % x, got % x", test.input, test.expect, s.Bytes())
			continue
		}

		got, consumed, err := s.DecodeFloat32(0)
		if err != nil || consumed != 5 || got != test.input {
			t.Errorf("decoding % x; expected (%f, 5), got (%f, %d, %v)", s.Bytes(), test.input, got, consumed, err)
		}
	}
}

func TestEncodeFloat64(t *testing.T) {
	for _, test := range []struct {
		input  float64
		expect []byte
	}{
		{input: 1.1, expect: []byte{0xfb, 0x3f, 0xf1, 0x99, 0x99, 0x99, 0x99, 0x99, 0x9a}},
		{input: 1.0e+300, expect: []byte{0xfb, 0x7e, 0x37, 0xe4, 0x3c, 0x88, 0x00, 0x75, 0x9c}},
		{input: -4.1, expect: []byte{0xfb, 0xc0, 0x10, 0x66, 0x66, 0x66, 0x66, 0x66, 0x66}},
	} {
		s := cbor.New(9)
		n, err := s.EncodeFloat64(test.input)
		if err != nil {
			t.Errorf("error encoding %f: %v", test.input, err)
			continue
		}
		if n != 9 || !bytes.Equal(s.Bytes(), test.expect) {
			t.Errorf("encoding %f; expected % x, got % x", test.input, test.expect, s.Bytes())
			continue
		}

		got, consumed, err := s.DecodeFloat64(0)
		if err != nil || consumed != 9 || got != test.input {
			t.Errorf("decoding % x; expected (%f, 9), got (%f, %d, %v)", s.Bytes(), test.input, got, consumed, err)
		}
	}
}

func TestFloatExactInitialByte(t *testing.T) {
	// Float deserializers require the initial byte to match exactly; a
	// half does not decode as a single, nor a single as a double.
	s := cbor.New(16)
	_, _ = s.EncodeFloat16(1.5)

	if _, n, err := s.DecodeFloat32(0); n != 0 || !errors.Is(err, cbor.ErrTypeMismatch) {
		t.Errorf("float32: expected (0, ErrTypeMismatch), got (%d, %v)", n, err)
	}
	if _, n, err := s.DecodeFloat64(0); n != 0 || !errors.Is(err, cbor.ErrTypeMismatch) {
		t.Errorf("float64: expected (0, ErrTypeMismatch), got (%d, %v)", n, err)
	}
	if _, n, err := s.DecodeBool(0); err != nil || n != 1 {
		// Major type 7 items other than true decode as false.
		t.Errorf("bool: expected (1, nil), got (%d, %v)", n, err)
	}
}

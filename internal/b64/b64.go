// Package b64 implements the base64 codecs used by the document model
// for binary-string round-tripping. It supports the standard alphabet
// with '=' padding and the unpadded URL-safe variant, plus caller
// supplied alphabets.
package b64

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBase64 indicates input that is not valid base64: a byte
// outside the alphabet before the first padding character, or a
// truncated final group.
var ErrInvalidBase64 = errors.New("b64: invalid base64")

const stdDigits = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789+/"

// Alphabet is an ordered set of 64 digits plus an optional padding
// byte. A zero pad byte means the alphabet emits no padding.
type Alphabet struct {
	digits [64]byte
	pad    byte
}

// NewAlphabet builds an alphabet from exactly 64 digit bytes and a
// padding byte (0 for no padding).
func NewAlphabet(digits string, pad byte) (Alphabet, error) {
	if len(digits) != 64 {
		return Alphabet{}, fmt.Errorf("b64: alphabet must have 64 digits, got %d", len(digits))
	}

	var a Alphabet
	copy(a.digits[:], digits)
	a.pad = pad
	return a, nil
}

// Pad returns the padding byte, or 0 if the alphabet is unpadded.
func (a Alphabet) Pad() byte {
	return a.pad
}

var (
	// StdAlphabet is the standard base64 alphabet with '=' padding.
	StdAlphabet = Alphabet{digits: digitsOf(stdDigits), pad: '='}

	// URLAlphabet shares the standard digits but emits no padding.
	URLAlphabet = Alphabet{digits: digitsOf(stdDigits)}
)

func digitsOf(s string) [64]byte {
	var d [64]byte
	copy(d[:], s)
	return d
}

// Encode encodes src with the standard alphabet, padded to a multiple
// of four symbols.
func Encode(src []byte) string {
	return EncodeWith(src, StdAlphabet)
}

// EncodeURL encodes src with the URL-safe alphabet; the result carries
// no padding.
func EncodeURL(src []byte) string {
	return EncodeWith(src, URLAlphabet)
}

// EncodeWith encodes src with the given alphabet. Input is consumed in
// groups of three octets, each producing four symbols; a trailing
// partial group produces two or three symbols and, for padded
// alphabets, pad bytes up to the group boundary.
func EncodeWith(src []byte, a Alphabet) string {
	var b strings.Builder
	b.Grow((len(src) + 2) / 3 * 4)

	i := 0
	for ; i+3 <= len(src); i += 3 {
		b0, b1, b2 := src[i], src[i+1], src[i+2]
		b.WriteByte(a.digits[b0>>2])
		b.WriteByte(a.digits[(b0&0x03)<<4|b1>>4])
		b.WriteByte(a.digits[(b1&0x0f)<<2|b2>>6])
		b.WriteByte(a.digits[b2&0x3f])
	}

	rem := len(src) - i
	if rem == 0 {
		return b.String()
	}

	// Zero-extend the missing octets and emit rem+1 symbols.
	b0 := src[i]
	var b1 byte
	if rem == 2 {
		b1 = src[i+1]
	}
	b.WriteByte(a.digits[b0>>2])
	b.WriteByte(a.digits[(b0&0x03)<<4|b1>>4])
	if rem == 2 {
		b.WriteByte(a.digits[(b1&0x0f)<<2])
	}
	if a.pad != 0 {
		for n := rem + 1; n < 4; n++ {
			b.WriteByte(a.pad)
		}
	}
	return b.String()
}

const badDigit = 0xff

var stdReverse = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = badDigit
	}
	for i := 0; i < len(stdDigits); i++ {
		t[stdDigits[i]] = byte(i)
	}
	return t
}()

// Decode decodes a string over the standard alphabet. Decoding stops at
// the first '=' or end of input; '=' padding is optional. A non-alphabet
// byte before that point, or a final group of a single symbol, yields
// ErrInvalidBase64.
func Decode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)/4*3)

	var quad [4]byte
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' {
			break
		}
		v := stdReverse[c]
		if v == badDigit {
			return nil, fmt.Errorf("%w: byte %q at offset %d", ErrInvalidBase64, c, i)
		}
		quad[n] = v
		n++
		if n == 4 {
			out = append(out,
				quad[0]<<2|(quad[1]&0x30)>>4,
				(quad[1]&0x0f)<<4|(quad[2]&0x3c)>>2,
				(quad[2]&0x03)<<6|quad[3])
			n = 0
		}
	}

	switch n {
	case 0:
	case 1:
		return nil, fmt.Errorf("%w: truncated group", ErrInvalidBase64)
	case 2:
		out = append(out, quad[0]<<2|(quad[1]&0x30)>>4)
	case 3:
		out = append(out,
			quad[0]<<2|(quad[1]&0x30)>>4,
			(quad[1]&0x0f)<<4|(quad[2]&0x3c)>>2)
	}
	return out, nil
}

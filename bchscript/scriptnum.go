// Copyright (c) 2015-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bchscript

import (
	"fmt"
	"math"
)

const (
	// DefaultScriptNumLen is the default number of bytes data being
	// interpreted as an integer may be.
	DefaultScriptNumLen = 4

	// MaxScriptNumLen is the largest number of bytes any numeric operand
	// may occupy.  Bitcoin Cash allows 64-bit script integers.
	MaxScriptNumLen = 8

	// LockTimeNumLen is the number of bytes a lock time operand may be.
	LockTimeNumLen = 5
)

// ScriptNum represents a numeric value used in the scripting engine with
// special handling to deal with the subtle semantics required by consensus.
//
// All numbers are stored on the data and alternate stacks encoded as little
// endian with a sign bit.  All numeric opcodes such as OP_ADD, OP_SUB, and
// OP_MUL, are only allowed to operate on operands no longer than the maximum
// numeric length in bytes, however the results of these operations are
// allowed to be larger before being pushed back onto the stack.
//
// Note that zero is encoded as an empty byte slice and that a negative zero
// (0x80) decodes to zero.
type ScriptNum int64

// checkMinimalDataEncoding returns whether or not the passed byte array adheres
// to the minimal encoding requirements.
func checkMinimalDataEncoding(v []byte) error {
	if len(v) == 0 {
		return nil
	}

	// Check that the number is encoded with the minimum possible
	// number of bytes.
	//
	// If the most-significant-byte - excluding the sign bit - is zero
	// then we're not minimal.  Note how this test also rejects the
	// negative-zero encoding, [0x80].
	if v[len(v)-1]&0x7f == 0 {
		// One exception: if there's more than one byte and the most
		// significant bit of the second-most-significant-byte is set
		// it would conflict with the sign bit.  An example of this case
		// is +-255, which encode to 0xff00 and 0xff80 respectively.
		// (big-endian).
		if len(v) == 1 || v[len(v)-2]&0x80 == 0 {
			str := fmt.Sprintf("numeric value encoded as %x is "+
				"not minimally encoded", v)
			return scriptError(ErrMalformedNumber, str)
		}
	}

	return nil
}

// IsMinimallyEncoded returns whether the passed bytes are the shortest
// encoding of the number they represent.
func IsMinimallyEncoded(v []byte) bool {
	return checkMinimalDataEncoding(v) == nil
}

// Bytes returns the number serialized as a little endian with a sign bit.
//
// Example encodings:
//
//	   127 -> [0x7f]
//	  -127 -> [0xff]
//	   128 -> [0x80 0x00]
//	  -128 -> [0x80 0x80]
//	   129 -> [0x81 0x00]
//	  -129 -> [0x81 0x80]
//	   256 -> [0x00 0x01]
//	  -256 -> [0x00 0x81]
//	 32767 -> [0xff 0x7f]
//	-32767 -> [0xff 0xff]
//	 32768 -> [0x00 0x80 0x00]
//	-32768 -> [0x00 0x80 0x80]
func (n ScriptNum) Bytes() []byte {
	// Zero encodes as an empty byte slice.
	if n == 0 {
		return nil
	}

	// Take the absolute value and keep track of whether it was originally
	// negative.  The magnitude is kept unsigned so the most negative int64
	// does not overflow.
	isNegative := n < 0
	m := uint64(n)
	if isNegative {
		m = -m
	}

	// Encode to little endian.  The maximum number of encoded bytes is 9
	// (8 bytes for max int64 plus a potential byte for sign extension).
	result := make([]byte, 0, 9)
	for m > 0 {
		result = append(result, byte(m&0xff))
		m >>= 8
	}

	// When the most significant byte already has the high bit set, an
	// additional high byte is required to indicate whether the number is
	// negative or positive.  The additional byte is removed when converting
	// back to an integral and its high bit is used to denote the sign.
	//
	// Otherwise, when the most significant byte does not already have the
	// high bit set, use it to indicate the value is negative, if needed.
	if result[len(result)-1]&0x80 != 0 {
		extraByte := byte(0x00)
		if isNegative {
			extraByte = 0x80
		}
		result = append(result, extraByte)

	} else if isNegative {
		result[len(result)-1] |= 0x80
	}

	return result
}

// Int32 returns the script number clamped to a valid int32.  That is to say
// when the script number is higher than the max allowed int32, the max int32
// value is returned and vice versa for the minimum value.
func (n ScriptNum) Int32() int32 {
	if n > 2147483647 {
		return 2147483647
	}

	if n < -2147483648 {
		return -2147483648
	}

	return int32(n)
}

// MakeScriptNum interprets the passed serialized bytes as an encoded integer
// and returns the result as a script number.
//
// Since the consensus rules dictate that serialized bytes interpreted as ints
// are only allowed to be in a bounded range, an error of ErrNumberTooBig is
// returned when the provided byte slice is longer than scriptNumLen.
//
// The requireMinimal flag causes an error of ErrMalformedNumber to be
// returned when the encoding is not the shortest possible one.
//
// The scriptNumLen is the maximum number of bytes the encoded value can be
// before an ErrNumberTooBig is returned.  Values above MaxScriptNumLen are
// clamped since larger encodings cannot be represented as an int64.
func MakeScriptNum(v []byte, requireMinimal bool, scriptNumLen int) (ScriptNum, error) {
	if scriptNumLen > MaxScriptNumLen {
		scriptNumLen = MaxScriptNumLen
	}

	// Interpreting data requires that it is not larger than the passed
	// scriptNumLen value.
	if len(v) > scriptNumLen {
		str := fmt.Sprintf("numeric value encoded as %x is %d bytes "+
			"which exceeds the max allowed of %d", v, len(v),
			scriptNumLen)
		return 0, scriptError(ErrNumberTooBig, str)
	}

	// Enforce minimal encoded if requested.
	if requireMinimal {
		if err := checkMinimalDataEncoding(v); err != nil {
			return 0, err
		}
	}

	// Zero is encoded as an empty byte slice.
	if len(v) == 0 {
		return 0, nil
	}

	// Decode from little endian.
	var result int64
	for i, val := range v {
		result |= int64(val) << uint8(8*i)
	}

	// When the most significant byte of the input bytes has the sign bit
	// set, the result is negative.  So, remove the sign bit from the result
	// and make it negative.
	if v[len(v)-1]&0x80 != 0 {
		// The maximum length of v has already been determined to be 8
		// above, so uint8 is enough to cover the max possible shift
		// value of 56.
		result &= ^(int64(0x80) << uint8(8*(len(v)-1)))
		return ScriptNum(-result), nil
	}

	return ScriptNum(result), nil
}

// PaddedScriptNum returns n minimally encoded and then zero padded to
// exactly size bytes.  For negative numbers the sign bit moves to the final
// padded byte so the padded form still decodes to n when minimal encoding is
// not required.
func PaddedScriptNum(n int64, size int) ([]byte, error) {
	if n == math.MinInt64 {
		str := fmt.Sprintf("numeric value %d cannot be encoded", n)
		return nil, scriptError(ErrNumberTooBig, str)
	}

	isNegative := n < 0
	magnitude := n
	if isNegative {
		magnitude = -n
	}
	encoded := ScriptNum(magnitude).Bytes()
	if len(encoded) > size {
		str := fmt.Sprintf("numeric value %d needs %d bytes which "+
			"exceeds the padded size of %d", n, len(encoded), size)
		return nil, scriptError(ErrNumberTooBig, str)
	}

	padded := make([]byte, size)
	copy(padded, encoded)
	if isNegative {
		padded[size-1] |= 0x80
	}
	return padded, nil
}

// MinimallyEncode returns the minimal encoding of the number held in the
// passed bytes, which may be of any length.  This is the transformation
// performed by OP_BIN2NUM.
func MinimallyEncode(v []byte) []byte {
	if len(v) == 0 {
		return nil
	}

	// Pull the sign bit off the last byte and then drop every zero byte
	// from the most significant end.
	out := make([]byte, len(v))
	copy(out, v)
	last := out[len(out)-1]
	signBit := last & 0x80
	out[len(out)-1] = last & 0x7f

	i := len(out)
	for i > 0 && out[i-1] == 0 {
		i--
	}
	out = out[:i]
	if len(out) == 0 {
		return nil
	}

	// Re-attach the sign, adding a byte if the top bit is taken.
	if out[len(out)-1]&0x80 != 0 {
		out = append(out, signBit)
	} else {
		out[len(out)-1] |= signBit
	}
	return out
}

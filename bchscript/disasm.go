// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bchscript

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/txscript"
)

// ParsedOpcode is a single element of a disassembled script: the opcode, any
// data it pushes, and the byte offset of the opcode within the script.
type ParsedOpcode struct {
	Opcode byte
	Data   []byte
	Offset int32
}

// Name returns the mnemonic of the parsed opcode.
func (pop *ParsedOpcode) Name() string {
	return OpcodeName(pop.Opcode)
}

// IsPush returns whether the element pushes data onto the stack, which
// includes the small integer opcodes and OP_1NEGATE.
func (pop *ParsedOpcode) IsPush() bool {
	return pop.Opcode <= OP_16 && pop.Opcode != OP_RESERVED
}

// PushedBytes returns the bytes the element leaves on the stack when it is a
// push.  Small integers are converted to their minimal numeric encoding.
func (pop *ParsedOpcode) PushedBytes() ([]byte, bool) {
	switch {
	case IsDataPush(pop.Opcode):
		return pop.Data, true
	case pop.Opcode == OP_1NEGATE:
		return ScriptNum(-1).Bytes(), true
	case IsSmallInt(pop.Opcode):
		return ScriptNum(AsSmallInt(pop.Opcode)).Bytes(), true
	}
	return nil, false
}

// Int64 interprets a push as a script number.  Small integer opcodes are
// decoded directly and data pushes are decoded with the given maximum length
// without requiring minimal encoding.
func (pop *ParsedOpcode) Int64(maxLen int) (int64, error) {
	if IsSmallInt(pop.Opcode) {
		return int64(AsSmallInt(pop.Opcode)), nil
	}
	if pop.Opcode == OP_1NEGATE {
		return -1, nil
	}
	if !IsDataPush(pop.Opcode) {
		str := fmt.Sprintf("opcode %s is not a numeric push", pop.Name())
		return 0, scriptError(ErrMalformedNumber, str)
	}
	n, err := MakeScriptNum(pop.Data, false, maxLen)
	return int64(n), err
}

// ParseScript disassembles the passed script into an ordered list of parsed
// opcodes.  An error is returned when a push runs past the end of the script.
func ParseScript(script []byte) ([]ParsedOpcode, error) {
	var pops []ParsedOpcode
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	offset := int32(0)
	for tokenizer.Next() {
		pops = append(pops, ParsedOpcode{
			Opcode: tokenizer.Opcode(),
			Data:   tokenizer.Data(),
			Offset: offset,
		})
		offset = tokenizer.ByteIndex()
	}
	if err := tokenizer.Err(); err != nil {
		str := fmt.Sprintf("malformed script at offset %d: %v",
			offset, err)
		return nil, scriptError(ErrMalformedPush, str)
	}
	return pops, nil
}

// disasmOpcode writes a human-readable disassembly of the provided opcode
// into the builder.  Data pushes are rendered as hex and the small integer
// opcodes by name, which matches the conventional ASM form.
func disasmOpcode(buf *strings.Builder, pop *ParsedOpcode) {
	if IsDataPush(pop.Opcode) && pop.Opcode != OP_0 {
		buf.WriteString(hex.EncodeToString(pop.Data))
		return
	}
	buf.WriteString(pop.Name())
}

// DisasmString formats a disassembled script for one line printing.  When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string '[error]'
// appended.  In addition, the reason the script failed to parse is returned
// if the caller wants more information about the failure.
func DisasmString(script []byte) (string, error) {
	var buf strings.Builder
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		pop := ParsedOpcode{
			Opcode: tokenizer.Opcode(),
			Data:   tokenizer.Data(),
		}
		disasmOpcode(&buf, &pop)
	}
	if err := tokenizer.Err(); err != nil {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString("[error]")
		return buf.String(), scriptError(ErrMalformedPush, err.Error())
	}
	return buf.String(), nil
}

// PushedData returns an array of byte slices containing any pushed data found
// in the passed script.  This includes OP_0, but not OP_1 - OP_16.
func PushedData(script []byte) ([][]byte, error) {
	pops, err := ParseScript(script)
	if err != nil {
		return nil, err
	}

	var data [][]byte
	for i := range pops {
		if !IsDataPush(pops[i].Opcode) {
			continue
		}
		data = append(data, pops[i].Data)
	}
	return data, nil
}

// IsPushOnlyScript returns whether or not the passed script only pushes data
// according to the consensus definition of pushing data.
func IsPushOnlyScript(script []byte) bool {
	pops, err := ParseScript(script)
	if err != nil {
		return false
	}
	for i := range pops {
		if !pops[i].IsPush() {
			return false
		}
	}
	return true
}

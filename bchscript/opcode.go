// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bchscript

import "fmt"

// These constants are the values of the Bitcoin Cash script opcodes.  The
// numeric values are shared with Bitcoin, but several opcodes that Bitcoin
// disabled or repurposed (OP_CAT, OP_SPLIT, OP_NUM2BIN, OP_BIN2NUM, OP_DIV,
// OP_MOD, OP_CHECKDATASIG) are active on Bitcoin Cash.
const (
	OP_0                   = 0x00 // 0
	OP_FALSE               = 0x00 // 0 - AKA OP_0
	OP_DATA_1              = 0x01 // 1
	OP_DATA_20             = 0x14 // 20
	OP_DATA_32             = 0x20 // 32
	OP_DATA_33             = 0x21 // 33
	OP_DATA_75             = 0x4b // 75
	OP_PUSHDATA1           = 0x4c // 76
	OP_PUSHDATA2           = 0x4d // 77
	OP_PUSHDATA4           = 0x4e // 78
	OP_1NEGATE             = 0x4f // 79
	OP_RESERVED            = 0x50 // 80
	OP_1                   = 0x51 // 81 - AKA OP_TRUE
	OP_TRUE                = 0x51 // 81
	OP_2                   = 0x52 // 82
	OP_3                   = 0x53 // 83
	OP_4                   = 0x54 // 84
	OP_5                   = 0x55 // 85
	OP_6                   = 0x56 // 86
	OP_7                   = 0x57 // 87
	OP_8                   = 0x58 // 88
	OP_9                   = 0x59 // 89
	OP_10                  = 0x5a // 90
	OP_11                  = 0x5b // 91
	OP_12                  = 0x5c // 92
	OP_13                  = 0x5d // 93
	OP_14                  = 0x5e // 94
	OP_15                  = 0x5f // 95
	OP_16                  = 0x60 // 96
	OP_NOP                 = 0x61 // 97
	OP_VER                 = 0x62 // 98
	OP_IF                  = 0x63 // 99
	OP_NOTIF               = 0x64 // 100
	OP_VERIF               = 0x65 // 101
	OP_VERNOTIF            = 0x66 // 102
	OP_ELSE                = 0x67 // 103
	OP_ENDIF               = 0x68 // 104
	OP_VERIFY              = 0x69 // 105
	OP_RETURN              = 0x6a // 106
	OP_TOALTSTACK          = 0x6b // 107
	OP_FROMALTSTACK        = 0x6c // 108
	OP_2DROP               = 0x6d // 109
	OP_2DUP                = 0x6e // 110
	OP_3DUP                = 0x6f // 111
	OP_2OVER               = 0x70 // 112
	OP_2ROT                = 0x71 // 113
	OP_2SWAP               = 0x72 // 114
	OP_IFDUP               = 0x73 // 115
	OP_DEPTH               = 0x74 // 116
	OP_DROP                = 0x75 // 117
	OP_DUP                 = 0x76 // 118
	OP_NIP                 = 0x77 // 119
	OP_OVER                = 0x78 // 120
	OP_PICK                = 0x79 // 121
	OP_ROLL                = 0x7a // 122
	OP_ROT                 = 0x7b // 123
	OP_SWAP                = 0x7c // 124
	OP_TUCK                = 0x7d // 125
	OP_CAT                 = 0x7e // 126
	OP_SPLIT               = 0x7f // 127
	OP_NUM2BIN             = 0x80 // 128
	OP_BIN2NUM             = 0x81 // 129
	OP_SIZE                = 0x82 // 130
	OP_INVERT              = 0x83 // 131
	OP_AND                 = 0x84 // 132
	OP_OR                  = 0x85 // 133
	OP_XOR                 = 0x86 // 134
	OP_EQUAL               = 0x87 // 135
	OP_EQUALVERIFY         = 0x88 // 136
	OP_RESERVED1           = 0x89 // 137
	OP_RESERVED2           = 0x8a // 138
	OP_1ADD                = 0x8b // 139
	OP_1SUB                = 0x8c // 140
	OP_2MUL                = 0x8d // 141
	OP_2DIV                = 0x8e // 142
	OP_NEGATE              = 0x8f // 143
	OP_ABS                 = 0x90 // 144
	OP_NOT                 = 0x91 // 145
	OP_0NOTEQUAL           = 0x92 // 146
	OP_ADD                 = 0x93 // 147
	OP_SUB                 = 0x94 // 148
	OP_MUL                 = 0x95 // 149
	OP_DIV                 = 0x96 // 150
	OP_MOD                 = 0x97 // 151
	OP_LSHIFT              = 0x98 // 152
	OP_RSHIFT              = 0x99 // 153
	OP_BOOLAND             = 0x9a // 154
	OP_BOOLOR              = 0x9b // 155
	OP_NUMEQUAL            = 0x9c // 156
	OP_NUMEQUALVERIFY      = 0x9d // 157
	OP_NUMNOTEQUAL         = 0x9e // 158
	OP_LESSTHAN            = 0x9f // 159
	OP_GREATERTHAN         = 0xa0 // 160
	OP_LESSTHANOREQUAL     = 0xa1 // 161
	OP_GREATERTHANOREQUAL  = 0xa2 // 162
	OP_MIN                 = 0xa3 // 163
	OP_MAX                 = 0xa4 // 164
	OP_WITHIN              = 0xa5 // 165
	OP_RIPEMD160           = 0xa6 // 166
	OP_SHA1                = 0xa7 // 167
	OP_SHA256              = 0xa8 // 168
	OP_HASH160             = 0xa9 // 169
	OP_HASH256             = 0xaa // 170
	OP_CODESEPARATOR       = 0xab // 171
	OP_CHECKSIG            = 0xac // 172
	OP_CHECKSIGVERIFY      = 0xad // 173
	OP_CHECKMULTISIG       = 0xae // 174
	OP_CHECKMULTISIGVERIFY = 0xaf // 175
	OP_NOP1                = 0xb0 // 176
	OP_CHECKLOCKTIMEVERIFY = 0xb1 // 177 - AKA OP_NOP2
	OP_CHECKSEQUENCEVERIFY = 0xb2 // 178 - AKA OP_NOP3
	OP_NOP4                = 0xb3 // 179
	OP_NOP5                = 0xb4 // 180
	OP_NOP6                = 0xb5 // 181
	OP_NOP7                = 0xb6 // 182
	OP_NOP8                = 0xb7 // 183
	OP_NOP9                = 0xb8 // 184
	OP_NOP10               = 0xb9 // 185
	OP_CHECKDATASIG        = 0xba // 186
	OP_CHECKDATASIGVERIFY  = 0xbb // 187
	OP_REVERSEBYTES        = 0xbc // 188
)

// opcodeNames maps every opcode value to its mnemonic.  Values without a
// Bitcoin Cash meaning are rendered as OP_UNKNOWN<n>.
var opcodeNames [256]string

func init() {
	named := map[byte]string{
		OP_0: "OP_0", OP_PUSHDATA1: "OP_PUSHDATA1",
		OP_PUSHDATA2: "OP_PUSHDATA2", OP_PUSHDATA4: "OP_PUSHDATA4",
		OP_1NEGATE: "OP_1NEGATE", OP_RESERVED: "OP_RESERVED",
		OP_NOP: "OP_NOP", OP_VER: "OP_VER", OP_IF: "OP_IF",
		OP_NOTIF: "OP_NOTIF", OP_VERIF: "OP_VERIF",
		OP_VERNOTIF: "OP_VERNOTIF", OP_ELSE: "OP_ELSE",
		OP_ENDIF: "OP_ENDIF", OP_VERIFY: "OP_VERIFY",
		OP_RETURN: "OP_RETURN", OP_TOALTSTACK: "OP_TOALTSTACK",
		OP_FROMALTSTACK: "OP_FROMALTSTACK", OP_2DROP: "OP_2DROP",
		OP_2DUP: "OP_2DUP", OP_3DUP: "OP_3DUP", OP_2OVER: "OP_2OVER",
		OP_2ROT: "OP_2ROT", OP_2SWAP: "OP_2SWAP", OP_IFDUP: "OP_IFDUP",
		OP_DEPTH: "OP_DEPTH", OP_DROP: "OP_DROP", OP_DUP: "OP_DUP",
		OP_NIP: "OP_NIP", OP_OVER: "OP_OVER", OP_PICK: "OP_PICK",
		OP_ROLL: "OP_ROLL", OP_ROT: "OP_ROT", OP_SWAP: "OP_SWAP",
		OP_TUCK: "OP_TUCK", OP_CAT: "OP_CAT", OP_SPLIT: "OP_SPLIT",
		OP_NUM2BIN: "OP_NUM2BIN", OP_BIN2NUM: "OP_BIN2NUM",
		OP_SIZE: "OP_SIZE", OP_INVERT: "OP_INVERT", OP_AND: "OP_AND",
		OP_OR: "OP_OR", OP_XOR: "OP_XOR", OP_EQUAL: "OP_EQUAL",
		OP_EQUALVERIFY: "OP_EQUALVERIFY", OP_RESERVED1: "OP_RESERVED1",
		OP_RESERVED2: "OP_RESERVED2", OP_1ADD: "OP_1ADD",
		OP_1SUB: "OP_1SUB", OP_2MUL: "OP_2MUL", OP_2DIV: "OP_2DIV",
		OP_NEGATE: "OP_NEGATE", OP_ABS: "OP_ABS", OP_NOT: "OP_NOT",
		OP_0NOTEQUAL: "OP_0NOTEQUAL", OP_ADD: "OP_ADD", OP_SUB: "OP_SUB",
		OP_MUL: "OP_MUL", OP_DIV: "OP_DIV", OP_MOD: "OP_MOD",
		OP_LSHIFT: "OP_LSHIFT", OP_RSHIFT: "OP_RSHIFT",
		OP_BOOLAND: "OP_BOOLAND", OP_BOOLOR: "OP_BOOLOR",
		OP_NUMEQUAL: "OP_NUMEQUAL", OP_NUMEQUALVERIFY: "OP_NUMEQUALVERIFY",
		OP_NUMNOTEQUAL: "OP_NUMNOTEQUAL", OP_LESSTHAN: "OP_LESSTHAN",
		OP_GREATERTHAN: "OP_GREATERTHAN", OP_LESSTHANOREQUAL: "OP_LESSTHANOREQUAL",
		OP_GREATERTHANOREQUAL: "OP_GREATERTHANOREQUAL", OP_MIN: "OP_MIN",
		OP_MAX: "OP_MAX", OP_WITHIN: "OP_WITHIN",
		OP_RIPEMD160: "OP_RIPEMD160", OP_SHA1: "OP_SHA1",
		OP_SHA256: "OP_SHA256", OP_HASH160: "OP_HASH160",
		OP_HASH256: "OP_HASH256", OP_CODESEPARATOR: "OP_CODESEPARATOR",
		OP_CHECKSIG: "OP_CHECKSIG", OP_CHECKSIGVERIFY: "OP_CHECKSIGVERIFY",
		OP_CHECKMULTISIG:       "OP_CHECKMULTISIG",
		OP_CHECKMULTISIGVERIFY: "OP_CHECKMULTISIGVERIFY",
		OP_NOP1:                "OP_NOP1",
		OP_CHECKLOCKTIMEVERIFY: "OP_CHECKLOCKTIMEVERIFY",
		OP_CHECKSEQUENCEVERIFY: "OP_CHECKSEQUENCEVERIFY",
		OP_NOP4:                "OP_NOP4", OP_NOP5: "OP_NOP5",
		OP_NOP6: "OP_NOP6", OP_NOP7: "OP_NOP7", OP_NOP8: "OP_NOP8",
		OP_NOP9: "OP_NOP9", OP_NOP10: "OP_NOP10",
		OP_CHECKDATASIG:       "OP_CHECKDATASIG",
		OP_CHECKDATASIGVERIFY: "OP_CHECKDATASIGVERIFY",
		OP_REVERSEBYTES:       "OP_REVERSEBYTES",
	}

	for i := range opcodeNames {
		op := byte(i)
		switch {
		case named[op] != "":
			opcodeNames[i] = named[op]
		case op >= OP_DATA_1 && op <= OP_DATA_75:
			opcodeNames[i] = fmt.Sprintf("OP_DATA_%d", op)
		case op >= OP_1 && op <= OP_16:
			opcodeNames[i] = fmt.Sprintf("OP_%d", op-(OP_1-1))
		default:
			opcodeNames[i] = fmt.Sprintf("OP_UNKNOWN%d", op)
		}
	}
}

// OpcodeName returns the mnemonic for the passed opcode value.
func OpcodeName(op byte) string {
	return opcodeNames[op]
}

// IsSmallInt returns whether or not the opcode is considered a small integer,
// which is an OP_0, or OP_1 through OP_16.
func IsSmallInt(op byte) bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}

// AsSmallInt returns the passed opcode, which must be true according to
// IsSmallInt, as an integer.
func AsSmallInt(op byte) int {
	if op == OP_0 {
		return 0
	}

	return int(op - (OP_1 - 1))
}

// IsDataPush returns whether the opcode pushes literal data from the script,
// which is OP_0 and every OP_DATA_N and OP_PUSHDATA opcode.
func IsDataPush(op byte) bool {
	return op <= OP_PUSHDATA4
}

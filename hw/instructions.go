package hw

//go:generate stringer -type=operation

// operation is the operation performed by an instruction, regardless of its
// addressing mode.
type operation uint8

const (
	ADC operation = iota
	AND
	ASL
	BCC
	BCS
	BEQ
	BIT
	BMI
	BNE
	BPL
	BRK
	BVC
	BVS
	CLC
	CLD
	CLI
	CLV
	CMP
	CPX
	CPY
	DEC
	DEX
	DEY
	EOR
	INC
	INX
	INY
	JMP
	JSR
	LDA
	LDX
	LDY
	LSR
	NOP
	ORA
	PHA
	PHP
	PLA
	PLP
	ROL
	ROR
	RTI
	RTS
	SBC
	SEC
	SED
	SEI
	STA
	STX
	STY
	TAX
	TAY
	TSX
	TXA
	TXS
	TYA

	// undocumented
	ALR
	ANC
	ANE
	ARR
	DCP
	ISC
	JAM
	LAS
	LAX
	LXA
	RLA
	RRA
	SAX
	SBX
	SHA
	SHX
	SHY
	SLO
	SRE
	TAS

	numOps
)

type addrMode uint8

const (
	imp addrMode = iota // implied or accumulator
	imm                 // #$nn
	zpg                 // $nn
	zpx                 // $nn,X
	zpy                 // $nn,Y
	rel                 // branch target
	abs                 // $nnnn
	abx                 // $nnnn,X
	aby                 // $nnnn,Y
	ind                 // ($nnnn)
	izx                 // ($nn,X)
	izy                 // ($nn),Y

	numModes
)

// size returns the number of bytes of an instruction using the addressing
// mode, opcode included.
func (m addrMode) size() uint16 {
	switch m {
	case imp:
		return 1
	case abs, abx, aby, ind:
		return 3
	}
	return 2
}

type instruction struct {
	op     operation
	mode   addrMode
	cycles uint8 // base cycle count
}

// pagePenalty lists operations taking an extra cycle when address
// computation crosses a page boundary.
var pagePenalty = [numOps]bool{
	ORA: true, AND: true, EOR: true, ADC: true, SBC: true, CMP: true,
	LDA: true, LDX: true, LDY: true, LAX: true, LAS: true, NOP: true,
}

// instructions is indexed by opcode. All 12 JAM opcodes ($02, $12, $22,
// $32, $42, $52, $62, $72, $92, $B2, $D2, $F2) halt the CPU.
var instructions = [256]instruction{
	/* 0x00 */ {BRK, imp, 7}, {ORA, izx, 6}, {JAM, imp, 2}, {SLO, izx, 8}, {NOP, zpg, 3}, {ORA, zpg, 3}, {ASL, zpg, 5}, {SLO, zpg, 5},
	/* 0x08 */ {PHP, imp, 3}, {ORA, imm, 2}, {ASL, imp, 2}, {ANC, imm, 2}, {NOP, abs, 4}, {ORA, abs, 4}, {ASL, abs, 6}, {SLO, abs, 6},
	/* 0x10 */ {BPL, rel, 2}, {ORA, izy, 5}, {JAM, imp, 2}, {SLO, izy, 8}, {NOP, zpx, 4}, {ORA, zpx, 4}, {ASL, zpx, 6}, {SLO, zpx, 6},
	/* 0x18 */ {CLC, imp, 2}, {ORA, aby, 4}, {NOP, imp, 2}, {SLO, aby, 7}, {NOP, abx, 4}, {ORA, abx, 4}, {ASL, abx, 7}, {SLO, abx, 7},
	/* 0x20 */ {JSR, abs, 6}, {AND, izx, 6}, {JAM, imp, 2}, {RLA, izx, 8}, {BIT, zpg, 3}, {AND, zpg, 3}, {ROL, zpg, 5}, {RLA, zpg, 5},
	/* 0x28 */ {PLP, imp, 4}, {AND, imm, 2}, {ROL, imp, 2}, {ANC, imm, 2}, {BIT, abs, 4}, {AND, abs, 4}, {ROL, abs, 6}, {RLA, abs, 6},
	/* 0x30 */ {BMI, rel, 2}, {AND, izy, 5}, {JAM, imp, 2}, {RLA, izy, 8}, {NOP, zpx, 4}, {AND, zpx, 4}, {ROL, zpx, 6}, {RLA, zpx, 6},
	/* 0x38 */ {SEC, imp, 2}, {AND, aby, 4}, {NOP, imp, 2}, {RLA, aby, 7}, {NOP, abx, 4}, {AND, abx, 4}, {ROL, abx, 7}, {RLA, abx, 7},
	/* 0x40 */ {RTI, imp, 6}, {EOR, izx, 6}, {JAM, imp, 2}, {SRE, izx, 8}, {NOP, zpg, 3}, {EOR, zpg, 3}, {LSR, zpg, 5}, {SRE, zpg, 5},
	/* 0x48 */ {PHA, imp, 3}, {EOR, imm, 2}, {LSR, imp, 2}, {ALR, imm, 2}, {JMP, abs, 3}, {EOR, abs, 4}, {LSR, abs, 6}, {SRE, abs, 6},
	/* 0x50 */ {BVC, rel, 2}, {EOR, izy, 5}, {JAM, imp, 2}, {SRE, izy, 8}, {NOP, zpx, 4}, {EOR, zpx, 4}, {LSR, zpx, 6}, {SRE, zpx, 6},
	/* 0x58 */ {CLI, imp, 2}, {EOR, aby, 4}, {NOP, imp, 2}, {SRE, aby, 7}, {NOP, abx, 4}, {EOR, abx, 4}, {LSR, abx, 7}, {SRE, abx, 7},
	/* 0x60 */ {RTS, imp, 6}, {ADC, izx, 6}, {JAM, imp, 2}, {RRA, izx, 8}, {NOP, zpg, 3}, {ADC, zpg, 3}, {ROR, zpg, 5}, {RRA, zpg, 5},
	/* 0x68 */ {PLA, imp, 4}, {ADC, imm, 2}, {ROR, imp, 2}, {ARR, imm, 2}, {JMP, ind, 5}, {ADC, abs, 4}, {ROR, abs, 6}, {RRA, abs, 6},
	/* 0x70 */ {BVS, rel, 2}, {ADC, izy, 5}, {JAM, imp, 2}, {RRA, izy, 8}, {NOP, zpx, 4}, {ADC, zpx, 4}, {ROR, zpx, 6}, {RRA, zpx, 6},
	/* 0x78 */ {SEI, imp, 2}, {ADC, aby, 4}, {NOP, imp, 2}, {RRA, aby, 7}, {NOP, abx, 4}, {ADC, abx, 4}, {ROR, abx, 7}, {RRA, abx, 7},
	/* 0x80 */ {NOP, imm, 2}, {STA, izx, 6}, {NOP, imm, 2}, {SAX, izx, 6}, {STY, zpg, 3}, {STA, zpg, 3}, {STX, zpg, 3}, {SAX, zpg, 3},
	/* 0x88 */ {DEY, imp, 2}, {NOP, imm, 2}, {TXA, imp, 2}, {ANE, imm, 2}, {STY, abs, 4}, {STA, abs, 4}, {STX, abs, 4}, {SAX, abs, 4},
	/* 0x90 */ {BCC, rel, 2}, {STA, izy, 6}, {JAM, imp, 2}, {SHA, izy, 6}, {STY, zpx, 4}, {STA, zpx, 4}, {STX, zpy, 4}, {SAX, zpy, 4},
	/* 0x98 */ {TYA, imp, 2}, {STA, aby, 5}, {TXS, imp, 2}, {TAS, aby, 5}, {SHY, abx, 5}, {STA, abx, 5}, {SHX, aby, 5}, {SHA, aby, 5},
	/* 0xA0 */ {LDY, imm, 2}, {LDA, izx, 6}, {LDX, imm, 2}, {LAX, izx, 6}, {LDY, zpg, 3}, {LDA, zpg, 3}, {LDX, zpg, 3}, {LAX, zpg, 3},
	/* 0xA8 */ {TAY, imp, 2}, {LDA, imm, 2}, {TAX, imp, 2}, {LXA, imm, 2}, {LDY, abs, 4}, {LDA, abs, 4}, {LDX, abs, 4}, {LAX, abs, 4},
	/* 0xB0 */ {BCS, rel, 2}, {LDA, izy, 5}, {JAM, imp, 2}, {LAX, izy, 5}, {LDY, zpx, 4}, {LDA, zpx, 4}, {LDX, zpy, 4}, {LAX, zpy, 4},
	/* 0xB8 */ {CLV, imp, 2}, {LDA, aby, 4}, {TSX, imp, 2}, {LAS, aby, 4}, {LDY, abx, 4}, {LDA, abx, 4}, {LDX, aby, 4}, {LAX, aby, 4},
	/* 0xC0 */ {CPY, imm, 2}, {CMP, izx, 6}, {NOP, imm, 2}, {DCP, izx, 8}, {CPY, zpg, 3}, {CMP, zpg, 3}, {DEC, zpg, 5}, {DCP, zpg, 5},
	/* 0xC8 */ {INY, imp, 2}, {CMP, imm, 2}, {DEX, imp, 2}, {SBX, imm, 2}, {CPY, abs, 4}, {CMP, abs, 4}, {DEC, abs, 6}, {DCP, abs, 6},
	/* 0xD0 */ {BNE, rel, 2}, {CMP, izy, 5}, {JAM, imp, 2}, {DCP, izy, 8}, {NOP, zpx, 4}, {CMP, zpx, 4}, {DEC, zpx, 6}, {DCP, zpx, 6},
	/* 0xD8 */ {CLD, imp, 2}, {CMP, aby, 4}, {NOP, imp, 2}, {DCP, aby, 7}, {NOP, abx, 4}, {CMP, abx, 4}, {DEC, abx, 7}, {DCP, abx, 7},
	/* 0xE0 */ {CPX, imm, 2}, {SBC, izx, 6}, {NOP, imm, 2}, {ISC, izx, 8}, {CPX, zpg, 3}, {SBC, zpg, 3}, {INC, zpg, 5}, {ISC, zpg, 5},
	/* 0xE8 */ {INX, imp, 2}, {SBC, imm, 2}, {NOP, imp, 2}, {SBC, imm, 2}, {CPX, abs, 4}, {SBC, abs, 4}, {INC, abs, 6}, {ISC, abs, 6},
	/* 0xF0 */ {BEQ, rel, 2}, {SBC, izy, 5}, {JAM, imp, 2}, {ISC, izy, 8}, {NOP, zpx, 4}, {SBC, zpx, 4}, {INC, zpx, 6}, {ISC, zpx, 6},
	/* 0xF8 */ {SED, imp, 2}, {SBC, aby, 4}, {NOP, imp, 2}, {ISC, aby, 7}, {NOP, abx, 4}, {SBC, abx, 4}, {INC, abx, 7}, {ISC, abx, 7},
}

// undocumented reports whether the opcode is not part of the official
// instruction set.
func undocumented(opcode uint8) bool {
	in := instructions[opcode]
	switch {
	case in.op >= ALR:
		return true
	case in.op == NOP:
		return opcode != 0xEA
	case in.op == SBC:
		return opcode == 0xEB
	}
	return false
}

package arm

import (
	"fmt"
	"strconv"
	"strings"
)

// Opcode names an instruction family.
type Opcode int

const (
	MOV Opcode = iota
	CMP
	ADD
	SUB
	RSB
	EOR
	SMULL
	LDR
	LDRSB
	STR
	STRB
	PUSH
	POP
	B
	BL
	LABEL
	DIRECTIVE
)

var opNames = [...]string{
	MOV: "MOV", CMP: "CMP", ADD: "ADD", SUB: "SUB", RSB: "RSB",
	EOR: "EOR", SMULL: "SMULL",
	LDR: "LDR", LDRSB: "LDRSB", STR: "STR", STRB: "STRB",
	PUSH: "PUSH", POP: "POP", B: "B", BL: "BL",
	LABEL: "LABEL", DIRECTIVE: "DIRECTIVE",
}

func (o Opcode) String() string { return opNames[o] }

// Cond is a condition-code suffix. AL, the zero value, prints as nothing.
type Cond int

const (
	AL Cond = iota
	EQ
	NE
	GT
	GE
	LT
	LE
	CS
	CC
	VS
	VC
)

var condNames = [...]string{
	AL: "", EQ: "EQ", NE: "NE", GT: "GT", GE: "GE", LT: "LT", LE: "LE",
	CS: "CS", CC: "CC", VS: "VS", VC: "VC",
}

func (c Cond) String() string { return condNames[c] }

// Invert returns the condition that holds exactly when c does not. AL has no
// such condition and is returned unchanged.
func (c Cond) Invert() Cond {
	switch c {
	case EQ:
		return NE
	case NE:
		return EQ
	case GT:
		return LE
	case LE:
		return GT
	case GE:
		return LT
	case LT:
		return GE
	case CS:
		return CC
	case CC:
		return CS
	case VS:
		return VC
	case VC:
		return VS
	}
	return c
}

// Instruction is one line of output. Values are built by the constructors
// below and never mutated; If and S return modified copies.
type Instruction struct {
	Op       Opcode
	Cond     Cond
	SetFlags bool
	Rd       Reg
	Rn       Reg     // first source of three-operand forms
	Op2      Operand // flexible second operand or address
	Regs     []Reg   // PUSH/POP list; SMULL RdLo, RdHi, Rm, Rs
	Label    string  // LABEL name, branch target or directive name
	Arg      string  // directive argument
}

// If returns a copy of i executed only under c.
func (i Instruction) If(c Cond) Instruction {
	i.Cond = c
	return i
}

// S returns a copy of i that sets the condition flags.
func (i Instruction) S() Instruction {
	i.SetFlags = true
	return i
}

func Mov(rd Reg, src Operand) Instruction { return Instruction{Op: MOV, Rd: rd, Op2: src} }
func Cmp(rn Reg, op2 Operand) Instruction { return Instruction{Op: CMP, Rd: rn, Op2: op2} }

func Add(rd, rn Reg, op2 Operand) Instruction { return Instruction{Op: ADD, Rd: rd, Rn: rn, Op2: op2} }
func Sub(rd, rn Reg, op2 Operand) Instruction { return Instruction{Op: SUB, Rd: rd, Rn: rn, Op2: op2} }
func Rsb(rd, rn Reg, op2 Operand) Instruction { return Instruction{Op: RSB, Rd: rd, Rn: rn, Op2: op2} }
func Eor(rd, rn Reg, op2 Operand) Instruction { return Instruction{Op: EOR, Rd: rd, Rn: rn, Op2: op2} }

// Smull is the signed 32x32->64 multiply: SMULL lo, hi, rm, rs.
func Smull(lo, hi, rm, rs Reg) Instruction {
	return Instruction{Op: SMULL, Regs: []Reg{lo, hi, rm, rs}}
}

func Ldr(rd Reg, src Operand) Instruction { return Instruction{Op: LDR, Rd: rd, Op2: src} }
func Ldrsb(rd Reg, src Mem) Instruction   { return Instruction{Op: LDRSB, Rd: rd, Op2: src} }
func Str(rd Reg, dst Mem) Instruction     { return Instruction{Op: STR, Rd: rd, Op2: dst} }
func Strb(rd Reg, dst Mem) Instruction    { return Instruction{Op: STRB, Rd: rd, Op2: dst} }

// Load picks LDRSB for single-byte values and LDR otherwise.
func Load(size int, rd Reg, src Mem) Instruction {
	if size == 1 {
		return Ldrsb(rd, src)
	}
	return Ldr(rd, src)
}

// Store picks STRB for single-byte values and STR otherwise.
func Store(size int, rd Reg, dst Mem) Instruction {
	if size == 1 {
		return Strb(rd, dst)
	}
	return Str(rd, dst)
}

func Push(regs ...Reg) Instruction { return Instruction{Op: PUSH, Regs: regs} }
func Pop(regs ...Reg) Instruction  { return Instruction{Op: POP, Regs: regs} }

func Branch(label string) Instruction     { return Instruction{Op: B, Label: label} }
func BranchLink(label string) Instruction { return Instruction{Op: BL, Label: label} }

// Label marks a branch target.
func Label(name string) Instruction { return Instruction{Op: LABEL, Label: name} }

// Directive is an assembler directive such as .data or .word 4.
func Directive(name, arg string) Instruction {
	return Instruction{Op: DIRECTIVE, Label: name, Arg: arg}
}

func Data() Instruction              { return Directive(".data", "") }
func Text() Instruction              { return Directive(".text", "") }
func Ltorg() Instruction             { return Directive(".ltorg", "") }
func Global(name string) Instruction { return Directive(".global", name) }
func Word(n int) Instruction         { return Directive(".word", strconv.Itoa(n)) }
func Ascii(raw string) Instruction   { return Directive(".ascii", Quote(raw)) }

// Comment is an assembler comment line: @ text.
func Comment(text string) Instruction { return Directive("@", text) }

// Quote renders raw bytes as a GNU as string literal.
func Quote(raw string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; c {
		case 0:
			// \0 followed by an octal digit would be read as one escape
			if i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7' {
				b.WriteString(`\000`)
			} else {
				b.WriteString(`\0`)
			}
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, "\\%03o", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (i Instruction) mnemonic() string {
	m := i.Op.String()
	if i.SetFlags {
		m += "S"
	}
	return m + i.Cond.String()
}

func regList(regs []Reg) string {
	parts := make([]string, 0, len(regs))
	for _, r := range regs {
		parts = append(parts, r.String())
	}
	return strings.Join(parts, ", ")
}

// String renders i exactly as the assembler expects it, without
// indentation.
func (i Instruction) String() string {
	switch i.Op {
	case LABEL:
		return i.Label + ":"
	case DIRECTIVE:
		if i.Arg == "" {
			return i.Label
		}
		return i.Label + " " + i.Arg
	case PUSH, POP:
		return i.mnemonic() + " {" + regList(i.Regs) + "}"
	case B, BL:
		return i.mnemonic() + " " + i.Label
	case SMULL:
		return i.mnemonic() + " " + regList(i.Regs)
	case ADD, SUB, RSB, EOR:
		return i.mnemonic() + " " + i.Rd.String() + ", " + i.Rn.String() + ", " + i.Op2.String()
	}
	return i.mnemonic() + " " + i.Rd.String() + ", " + i.Op2.String()
}

// isSection reports whether i starts a section and prints flush left.
func (i Instruction) isSection() bool {
	if i.Op != DIRECTIVE {
		return false
	}
	switch i.Label {
	case ".data", ".text", ".global":
		return true
	}
	return false
}

// Render lays out a program: sections and labels flush left, everything
// else indented by a tab, a blank line before each section.
func Render(instrs []Instruction) string {
	var b strings.Builder
	for n, i := range instrs {
		switch {
		case i.isSection():
			if n > 0 && i.Label != ".global" {
				b.WriteByte('\n')
			}
			b.WriteString(i.String())
			if i.Label != ".global" {
				b.WriteByte('\n')
			}
		case i.Op == LABEL:
			b.WriteString(i.String())
		default:
			b.WriteByte('\t')
			b.WriteString(i.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

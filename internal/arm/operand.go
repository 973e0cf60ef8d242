// Package arm models the ARM11 instructions the code generator emits and
// renders them in GNU assembler syntax.
package arm

import (
	"fmt"
	"strconv"
)

// Reg is a core register.
type Reg int

const (
	R0 Reg = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	SP
	LR
	PC
)

// FP is the frame pointer.
const FP = R11

var regNames = [...]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7",
	"r8", "r9", "r10", "fp", "r12", "sp", "lr", "pc",
}

func (r Reg) String() string {
	if int(r) < len(regNames) && r >= 0 {
		return regNames[r]
	}
	return fmt.Sprintf("r?%d", int(r))
}

func (Reg) isOperand() {}

// Operand is a flexible second operand or an address.
type Operand interface {
	String() string
	isOperand()
}

// Imm is an immediate constant: #n.
type Imm int32

func (i Imm) String() string { return "#" + strconv.FormatInt(int64(i), 10) }
func (Imm) isOperand()       {}

// ShiftKind is a barrel-shifter operation.
type ShiftKind int

const (
	LSL ShiftKind = iota
	ASR
)

func (s ShiftKind) String() string {
	if s == ASR {
		return "ASR"
	}
	return "LSL"
}

// Shifted is a register passed through the barrel shifter: r5, LSL #2.
type Shifted struct {
	Reg    Reg
	Shift  ShiftKind
	Amount int
}

func (s Shifted) String() string { return fmt.Sprintf("%s, %s #%d", s.Reg, s.Shift, s.Amount) }
func (Shifted) isOperand()       {}

// Mem is a register-relative address. With Writeback it is pre-indexed:
// [sp, #-4]!.
type Mem struct {
	Base      Reg
	Offset    int32
	Writeback bool
}

// At is [base, #offset].
func At(base Reg, offset int32) Mem { return Mem{Base: base, Offset: offset} }

// Deref is [base].
func Deref(base Reg) Mem { return Mem{Base: base} }

// PreDec is [base, #offset]! with a negative offset, used to push one word.
func PreDec(base Reg, by int32) Mem { return Mem{Base: base, Offset: -by, Writeback: true} }

func (m Mem) String() string {
	if m.Offset == 0 && !m.Writeback {
		return "[" + m.Base.String() + "]"
	}
	s := fmt.Sprintf("[%s, #%d]", m.Base, m.Offset)
	if m.Writeback {
		s += "!"
	}
	return s
}
func (Mem) isOperand() {}

// Literal is an LDR pseudo-operand loaded from the literal pool: =5 or =msg_0.
type Literal struct {
	Label string
	Value int32
}

// Lit is =value.
func Lit(v int32) Literal { return Literal{Value: v} }

// LitLabel is =label.
func LitLabel(label string) Literal { return Literal{Label: label} }

func (l Literal) String() string {
	if l.Label != "" {
		return "=" + l.Label
	}
	return "=" + strconv.FormatInt(int64(l.Value), 10)
}
func (Literal) isOperand() {}

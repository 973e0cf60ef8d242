package support

import (
	"fmt"

	"github.com/louisheal/wacc/internal/arm"
)

// Routine is one canned runtime routine. Inputs arrive in r0 and r1.
type Routine int

const (
	PrintInt Routine = iota
	PrintBool
	PrintString
	PrintReference
	PrintLn
	ReadInt
	ReadChar
	CheckNullPointer
	CheckDivideByZero
	CheckArrayBounds
	ThrowOverflowError
	ThrowRuntimeError
	FreePair
	numRoutines
)

var routineNames = [...]string{
	PrintInt:           "p_print_int",
	PrintBool:          "p_print_bool",
	PrintString:        "p_print_string",
	PrintReference:     "p_print_reference",
	PrintLn:            "p_print_ln",
	ReadInt:            "p_read_int",
	ReadChar:           "p_read_char",
	CheckNullPointer:   "p_check_null_pointer",
	CheckDivideByZero:  "p_check_divide_by_zero",
	CheckArrayBounds:   "p_check_array_bounds",
	ThrowOverflowError: "p_throw_overflow_error",
	ThrowRuntimeError:  "p_throw_runtime_error",
	FreePair:           "p_free_pair",
}

// Label is the routine's entry label.
func (r Routine) Label() string {
	if r >= 0 && r < numRoutines {
		return routineNames[r]
	}
	return fmt.Sprintf("p_routine_%d", int(r))
}

func (r Routine) String() string { return r.Label() }

// Runtime error messages.
const (
	NullReferenceMsg = "NullReferenceError: dereference a null reference\n\x00"
	DivideByZeroMsg  = "DivideByZeroError: divide or modulo by zero\n\x00"
	NegativeIndexMsg = "ArrayIndexOutOfBoundsError: negative index\n\x00"
	IndexTooLargeMsg = "ArrayIndexOutOfBoundsError: index too large\n\x00"
	OverflowMsg      = "OverflowError: the result is too small/large to store in a 4-byte signed-integer.\n\x00"
)

// Format strings handed to libc.
const (
	intFormat    = "%d\x00"
	charFormat   = " %c\x00"
	stringFormat = "%.*s\x00"
	refFormat    = "%p\x00"
	trueText     = "true\x00"
	falseText    = "false\x00"
	emptyLine    = "\x00"
)

// Deps lists the routines r branches to.
func (r Routine) Deps() []Routine {
	switch r {
	case CheckNullPointer, CheckDivideByZero, CheckArrayBounds, ThrowOverflowError, FreePair:
		return []Routine{ThrowRuntimeError}
	case ThrowRuntimeError:
		return []Routine{PrintString}
	}
	return nil
}

// Names lists every routine label in catalogue order.
func Names() []string {
	out := make([]string, 0, numRoutines)
	for r := Routine(0); r < numRoutines; r++ {
		out = append(out, r.Label())
	}
	return out
}

// Lookup finds a routine by label.
func Lookup(label string) (Routine, bool) {
	for r := Routine(0); r < numRoutines; r++ {
		if r.Label() == label {
			return r, true
		}
	}
	return 0, false
}

// libcPrint is the printf-and-flush tail shared by the print routines.
func libcPrint(call string) []arm.Instruction {
	return []arm.Instruction{
		arm.Add(arm.R0, arm.R0, arm.Imm(4)),
		arm.BranchLink(call),
		arm.Mov(arm.R0, arm.Imm(0)),
		arm.BranchLink("fflush"),
		arm.Pop(arm.PC),
	}
}

// Instructions instantiates r, interning the messages it needs into pool.
func (r Routine) Instructions(pool *Pool) []arm.Instruction {
	lit := func(s string) arm.Literal { return arm.LitLabel(pool.Intern(s)) }
	throw := ThrowRuntimeError.Label()

	body := []arm.Instruction{arm.Label(r.Label())}
	switch r {
	case PrintInt:
		body = append(body,
			arm.Push(arm.LR),
			arm.Mov(arm.R1, arm.R0),
			arm.Ldr(arm.R0, lit(intFormat)),
		)
		body = append(body, libcPrint("printf")...)
	case PrintBool:
		body = append(body,
			arm.Push(arm.LR),
			arm.Cmp(arm.R0, arm.Imm(0)),
			arm.Ldr(arm.R0, lit(trueText)).If(arm.NE),
			arm.Ldr(arm.R0, lit(falseText)).If(arm.EQ),
		)
		body = append(body, libcPrint("printf")...)
	case PrintString:
		body = append(body,
			arm.Push(arm.LR),
			arm.Ldr(arm.R1, arm.Deref(arm.R0)),
			arm.Add(arm.R2, arm.R0, arm.Imm(4)),
			arm.Ldr(arm.R0, lit(stringFormat)),
		)
		body = append(body, libcPrint("printf")...)
	case PrintReference:
		body = append(body,
			arm.Push(arm.LR),
			arm.Mov(arm.R1, arm.R0),
			arm.Ldr(arm.R0, lit(refFormat)),
		)
		body = append(body, libcPrint("printf")...)
	case PrintLn:
		body = append(body,
			arm.Push(arm.LR),
			arm.Ldr(arm.R0, lit(emptyLine)),
		)
		body = append(body, libcPrint("puts")...)
	case ReadInt, ReadChar:
		format := intFormat
		if r == ReadChar {
			format = charFormat
		}
		body = append(body,
			arm.Push(arm.LR),
			arm.Mov(arm.R1, arm.R0),
			arm.Ldr(arm.R0, lit(format)),
			arm.Add(arm.R0, arm.R0, arm.Imm(4)),
			arm.BranchLink("scanf"),
			arm.Pop(arm.PC),
		)
	case CheckNullPointer:
		body = append(body,
			arm.Push(arm.LR),
			arm.Cmp(arm.R0, arm.Imm(0)),
			arm.Ldr(arm.R0, lit(NullReferenceMsg)).If(arm.EQ),
			arm.BranchLink(throw).If(arm.EQ),
			arm.Pop(arm.PC),
		)
	case CheckDivideByZero:
		body = append(body,
			arm.Push(arm.LR),
			arm.Cmp(arm.R1, arm.Imm(0)),
			arm.Ldr(arm.R0, lit(DivideByZeroMsg)).If(arm.EQ),
			arm.BranchLink(throw).If(arm.EQ),
			arm.Pop(arm.PC),
		)
	case CheckArrayBounds:
		// r0 = index, r1 = array pointer
		body = append(body,
			arm.Push(arm.LR),
			arm.Cmp(arm.R0, arm.Imm(0)),
			arm.Ldr(arm.R0, lit(NegativeIndexMsg)).If(arm.LT),
			arm.BranchLink(throw).If(arm.LT),
			arm.Ldr(arm.R1, arm.Deref(arm.R1)),
			arm.Cmp(arm.R0, arm.R1),
			arm.Ldr(arm.R0, lit(IndexTooLargeMsg)).If(arm.CS),
			arm.BranchLink(throw).If(arm.CS),
			arm.Pop(arm.PC),
		)
	case ThrowOverflowError:
		body = append(body,
			arm.Ldr(arm.R0, lit(OverflowMsg)),
			arm.BranchLink(throw),
		)
	case ThrowRuntimeError:
		body = append(body,
			arm.BranchLink(PrintString.Label()),
			arm.Mov(arm.R0, arm.Imm(-1)),
			arm.BranchLink("exit"),
		)
	case FreePair:
		body = append(body,
			arm.Push(arm.LR),
			arm.Cmp(arm.R0, arm.Imm(0)),
			arm.Ldr(arm.R0, lit(NullReferenceMsg)).If(arm.EQ),
			arm.Branch(throw).If(arm.EQ),
			arm.Push(arm.R0),
			arm.Ldr(arm.R0, arm.Deref(arm.R0)),
			arm.BranchLink("free"),
			arm.Ldr(arm.R0, arm.Deref(arm.SP)),
			arm.Ldr(arm.R0, arm.At(arm.R0, 4)),
			arm.BranchLink("free"),
			arm.Pop(arm.R0),
			arm.BranchLink("free"),
			arm.Pop(arm.PC),
		)
	}
	return body
}

package codegen

import (
	"github.com/louisheal/wacc/internal/arm"
	"github.com/louisheal/wacc/internal/support"
)

// Runtime checks. Each hands its operands to a support routine in r0/r1;
// the routine exits the process on failure and returns otherwise.

// checkOverflow follows a flag-setting operation; cond holds on overflow.
func (cg *CodeGen) checkOverflow(cond arm.Cond) {
	cg.emit(cg.call(support.ThrowOverflowError).If(cond))
}

func (cg *CodeGen) checkNull(ptr arm.Reg) {
	cg.emit(arm.Mov(arm.R0, ptr), cg.call(support.CheckNullPointer))
}

// checkDivisor leaves the dividend in r0 and the divisor in r1, ready for
// the division helper.
func (cg *CodeGen) checkDivisor(dividend, divisor arm.Reg) {
	cg.emit(
		arm.Mov(arm.R0, dividend),
		arm.Mov(arm.R1, divisor),
		cg.call(support.CheckDivideByZero),
	)
}

func (cg *CodeGen) checkBounds(index, array arm.Reg) {
	cg.emit(
		arm.Mov(arm.R0, index),
		arm.Mov(arm.R1, array),
		cg.call(support.CheckArrayBounds),
	)
}

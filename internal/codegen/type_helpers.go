package codegen

import (
	"math/bits"

	"github.com/louisheal/wacc/internal/arm"
	"github.com/louisheal/wacc/internal/ast"
	"github.com/louisheal/wacc/internal/typesys"
)

// typeOf is the analyzer's type for e. A missing type, or one with Error or
// Unknown anywhere inside it, means analysis did not run or let a bad
// program through.
func (cg *CodeGen) typeOf(e ast.Expression) typesys.Type {
	t, ok := cg.types[e]
	switch {
	case !ok:
		cg.fail(e, "expression was never type-checked")
	case !typesys.IsValid(t):
		cg.failf(e, "expression has type %s", t)
	default:
		return t
	}
	return typesys.Int
}

func (cg *CodeGen) sizeOf(e ast.Expression) int {
	return cg.typeOf(e).Size()
}

// elemSize is the slot size of an array literal's elements.
func (cg *CodeGen) elemSize(lit *ast.ArrayLiteral) int {
	if len(lit.Elements) == 0 {
		return 4
	}
	elem, ok := typesys.Elem(cg.typeOf(lit), 1)
	if !ok {
		cg.fail(lit, "array literal is not typed as an array")
		return 4
	}
	return elem.Size()
}

// immChunks splits n into pieces that each fit an ARM rotated 8-bit
// immediate.
func immChunks(n uint32) []int32 {
	var out []int32
	for n != 0 {
		shift := bits.TrailingZeros32(n) &^ 1
		chunk := n & (0xFF << shift)
		out = append(out, int32(chunk))
		n &^= chunk
	}
	return out
}

// addImm computes rd = rn + n using as many ADD or SUB steps as the
// immediate encoding needs.
func addImm(rd, rn arm.Reg, n int32) []arm.Instruction {
	op := arm.Add
	mag := uint32(n)
	if n < 0 {
		op = arm.Sub
		mag = uint32(-int64(n))
	}
	var out []arm.Instruction
	src := rn
	for _, c := range immChunks(mag) {
		out = append(out, op(rd, src, arm.Imm(c)))
		src = rd
	}
	if len(out) == 0 && rd != rn {
		out = append(out, arm.Mov(rd, rn))
	}
	return out
}

// offsetFits reports whether off can be encoded directly in a load or store
// of size bytes. LDRSB only takes an 8-bit offset.
func offsetFits(size int, off int32, load bool) bool {
	limit := int32(4095)
	if size == 1 && load {
		limit = 255
	}
	return off >= -limit && off <= limit
}

// load reads size bytes at base+off into rd, going through r12 for offsets
// the instruction cannot encode.
func (cg *CodeGen) load(size int, rd, base arm.Reg, off int32) {
	if !offsetFits(size, off, true) {
		cg.emit(addImm(arm.R12, base, off)...)
		base, off = arm.R12, 0
	}
	cg.emit(arm.Load(size, rd, arm.At(base, off)))
}

func (cg *CodeGen) store(size int, rs, base arm.Reg, off int32) {
	if !offsetFits(size, off, false) {
		cg.emit(addImm(arm.R12, base, off)...)
		base, off = arm.R12, 0
	}
	cg.emit(arm.Store(size, rs, arm.At(base, off)))
}

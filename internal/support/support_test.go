package support

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/louisheal/wacc/internal/arm"
)

func TestPoolInterning(t *testing.T) {
	p := NewPool()
	a := p.Intern("hello")
	b := p.Intern("world")
	again := p.Intern("hello")

	assert.Equal(t, "msg_0", a)
	assert.Equal(t, "msg_1", b)
	assert.Equal(t, a, again)
	assert.Equal(t, 2, p.Len())
	assert.Contains(t, arm.Render(p.Instructions()), "msg_1:\n\t.word 5\n\t.ascii \"world\"\n")
}

// labels lists the labels defined in instrs, in order.
func labels(instrs []arm.Instruction) []string {
	var out []string
	for _, i := range instrs {
		if i.Op == arm.LABEL {
			out = append(out, i.Label)
		}
	}
	return out
}

func TestPoolInstructions(t *testing.T) {
	p := NewPool()
	p.Intern("%d\x00")
	got := arm.Render(p.Instructions())
	want := "msg_0:\n\t.word 3\n\t.ascii \"%d\\0\"\n"
	assert.Equal(t, want, got)
}

func TestPoolLengthCountsEscapesOnce(t *testing.T) {
	p := NewPool()
	p.Intern(NullReferenceMsg)
	ins := p.Instructions()
	require.Len(t, ins, 3)
	assert.Equal(t, ".word 50", ins[1].String())
}

func TestRoutineLabels(t *testing.T) {
	names := Names()
	assert.Len(t, names, int(numRoutines))
	assert.Equal(t, "p_print_int", names[0])
	assert.Contains(t, names, "p_check_array_bounds")

	r, ok := Lookup("p_free_pair")
	require.True(t, ok)
	assert.Equal(t, FreePair, r)

	_, ok = Lookup("p_nothing")
	assert.False(t, ok)
}

func TestRequireClosesOverDependencies(t *testing.T) {
	c := NewCatalogue()
	label := c.Require(CheckArrayBounds)
	assert.Equal(t, "p_check_array_bounds", label)
	assert.Equal(t,
		[]string{"p_check_array_bounds", "p_throw_runtime_error", "p_print_string"},
		labels(c.Instructions(NewPool())))

	c.Require(CheckNullPointer)
	c.Require(CheckArrayBounds)
	c.Require(PrintString)
	assert.Equal(t,
		[]string{"p_check_array_bounds", "p_throw_runtime_error", "p_print_string", "p_check_null_pointer"},
		labels(c.Instructions(NewPool())))
}

func TestCatalogueEmitsEachRoutineOnce(t *testing.T) {
	c := NewCatalogue()
	c.Require(ThrowOverflowError)
	c.Require(ThrowOverflowError)
	c.Require(FreePair)

	pool := NewPool()
	out := arm.Render(c.Instructions(pool))
	for _, r := range []Routine{ThrowOverflowError, ThrowRuntimeError, PrintString, FreePair} {
		assert.Equal(t, 1, strings.Count(out, r.Label()+":\n"), "label %s", r)
	}
	// overflow and null messages plus the string format
	assert.Equal(t, 3, pool.Len())
}

func TestRoutineBodies(t *testing.T) {
	tests := []struct {
		r    Routine
		want []string
	}{
		{PrintInt, []string{
			"p_print_int:",
			"PUSH {lr}",
			"MOV r1, r0",
			"LDR r0, =msg_0",
			"ADD r0, r0, #4",
			"BL printf",
			"MOV r0, #0",
			"BL fflush",
			"POP {pc}",
		}},
		{CheckDivideByZero, []string{
			"p_check_divide_by_zero:",
			"PUSH {lr}",
			"CMP r1, #0",
			"LDREQ r0, =msg_0",
			"BLEQ p_throw_runtime_error",
			"POP {pc}",
		}},
		{CheckArrayBounds, []string{
			"p_check_array_bounds:",
			"PUSH {lr}",
			"CMP r0, #0",
			"LDRLT r0, =msg_0",
			"BLLT p_throw_runtime_error",
			"LDR r1, [r1]",
			"CMP r0, r1",
			"LDRCS r0, =msg_1",
			"BLCS p_throw_runtime_error",
			"POP {pc}",
		}},
		{ThrowRuntimeError, []string{
			"p_throw_runtime_error:",
			"BL p_print_string",
			"MOV r0, #-1",
			"BL exit",
		}},
		{FreePair, []string{
			"p_free_pair:",
			"PUSH {lr}",
			"CMP r0, #0",
			"LDREQ r0, =msg_0",
			"BEQ p_throw_runtime_error",
			"PUSH {r0}",
			"LDR r0, [r0]",
			"BL free",
			"LDR r0, [sp]",
			"LDR r0, [r0, #4]",
			"BL free",
			"POP {r0}",
			"BL free",
			"POP {pc}",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.r.Label(), func(t *testing.T) {
			var got []string
			for _, i := range tt.r.Instructions(NewPool()) {
				got = append(got, i.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoutineMessages(t *testing.T) {
	pool := NewPool()
	CheckArrayBounds.Instructions(pool)
	require.Equal(t, 2, pool.Len())
	assert.Equal(t, "msg_0", pool.Intern(NegativeIndexMsg))
	assert.Equal(t, "msg_1", pool.Intern(IndexTooLargeMsg))
	assert.Equal(t, 2, pool.Len())
}

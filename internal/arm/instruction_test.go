package arm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestInstructionRendering(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{Mov(R0, Imm(5)), "MOV r0, #5"},
		{Mov(R1, R0), "MOV r1, r0"},
		{Mov(R4, Imm(-1)), "MOV r4, #-1"},
		{Mov(R4, Imm(1)).If(EQ), "MOVEQ r4, #1"},
		{Cmp(R4, Imm(0)), "CMP r4, #0"},
		{Cmp(R5, Shifted{Reg: R4, Shift: ASR, Amount: 31}), "CMP r5, r4, ASR #31"},
		{Add(R4, R4, R5).S(), "ADDS r4, r4, r5"},
		{Add(R4, R4, Shifted{Reg: R5, Shift: LSL, Amount: 2}), "ADD r4, r4, r5, LSL #2"},
		{Sub(SP, SP, Imm(8)), "SUB sp, sp, #8"},
		{Rsb(R4, R4, Imm(0)).S(), "RSBS r4, r4, #0"},
		{Eor(R4, R4, Imm(1)), "EOR r4, r4, #1"},
		{Smull(R4, R5, R4, R5), "SMULL r4, r5, r4, r5"},
		{Ldr(R4, Lit(5)), "LDR r4, =5"},
		{Ldr(R0, LitLabel("msg_0")), "LDR r0, =msg_0"},
		{Ldr(R0, LitLabel("msg_1")).If(CS), "LDRCS r0, =msg_1"},
		{Ldr(R4, At(FP, -4)), "LDR r4, [fp, #-4]"},
		{Ldr(R1, Deref(R1)), "LDR r1, [r1]"},
		{Ldrsb(R4, Deref(R4)), "LDRSB r4, [r4]"},
		{Str(R4, PreDec(SP, 4)), "STR r4, [sp, #-4]!"},
		{Strb(R4, At(R5, 4)), "STRB r4, [r5, #4]"},
		{Load(1, R4, At(FP, 8)), "LDRSB r4, [fp, #8]"},
		{Load(4, R4, At(FP, 8)), "LDR r4, [fp, #8]"},
		{Store(1, R4, Deref(R0)), "STRB r4, [r0]"},
		{Push(FP, LR), "PUSH {fp, lr}"},
		{Pop(R4, R5, PC), "POP {r4, r5, pc}"},
		{Branch("L0"), "B L0"},
		{Branch("L1").If(NE), "BNE L1"},
		{BranchLink("p_throw_runtime_error").If(EQ), "BLEQ p_throw_runtime_error"},
		{BranchLink("p_throw_overflow_error").If(VS), "BLVS p_throw_overflow_error"},
		{Label("main"), "main:"},
		{Data(), ".data"},
		{Global("main"), ".global main"},
		{Word(3), ".word 3"},
		{Ascii("%d\x00"), `.ascii "%d\0"`},
		{Ltorg(), ".ltorg"},
		{Comment("exit x"), "@ exit x"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Fatalf("String()=%q want=%q", got, tt.want)
		}
	}
}

func TestInstructionsAreValues(t *testing.T) {
	base := Mov(R4, Imm(0))
	cond := base.If(GT)
	flags := Add(R4, R4, R5)
	_ = flags.S()

	assert.Equal(t, AL, base.Cond)
	assert.Equal(t, GT, cond.Cond)
	assert.False(t, flags.SetFlags)
}

func TestCondInvert(t *testing.T) {
	pairs := map[Cond]Cond{
		EQ: NE, NE: EQ, GT: LE, LE: GT, GE: LT, LT: GE,
		CS: CC, CC: CS, VS: VC, VC: VS, AL: AL,
	}
	for c, want := range pairs {
		assert.Equal(t, want, c.Invert(), "invert %q", c)
		if c != AL {
			assert.NotEqual(t, c, c.Invert(), "invert %q", c)
		}
	}
	assert.Equal(t, "BLVC p_ok", BranchLink("p_ok").If(VC).String())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"a\"b\\c\n"`, Quote("a\"b\\c\n"))
	assert.Equal(t, `"\0001"`, Quote("\x001"))
	assert.Equal(t, `"\033x"`, Quote("\x1bx"))
}

func TestRender(t *testing.T) {
	prog := []Instruction{
		Data(),
		Label("msg_0"),
		Word(3),
		Ascii("%d\x00"),
		Text(),
		Global("main"),
		Label("main"),
		Push(LR),
		Ldr(R0, Lit(0)),
		Pop(PC),
		Ltorg(),
	}
	want := ".data\n\n" +
		"msg_0:\n" +
		"\t.word 3\n" +
		"\t.ascii \"%d\\0\"\n" +
		"\n.text\n\n" +
		".global main\n" +
		"main:\n" +
		"\tPUSH {lr}\n" +
		"\tLDR r0, =0\n" +
		"\tPOP {pc}\n" +
		"\t.ltorg\n"
	if diff := cmp.Diff(want, Render(prog)); diff != "" {
		t.Fatalf("Render mismatch (-want +got):\n%s", diff)
	}
}

func TestRegNames(t *testing.T) {
	assert.Equal(t, "fp", FP.String())
	assert.Equal(t, "r10", R10.String())
	assert.Equal(t, "sp", SP.String())
	assert.Equal(t, "r?20", Reg(20).String())
}

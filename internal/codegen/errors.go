package codegen

import (
	"fmt"
	"strings"

	"github.com/louisheal/wacc/internal/ast"
)

// InvariantViolation reports a checked program the generator cannot lower.
// It is a defect in an earlier stage, never a problem with the source.
type InvariantViolation struct {
	Node   ast.Node
	Reason string
}

func (v *InvariantViolation) Error() string {
	text := "codegen invariant violated: " + v.Reason
	if v.Node == nil {
		return text
	}
	if tok := v.Node.Tok(); tok.Line > 0 && tok.Column > 0 {
		text += fmt.Sprintf(" (at %d:%d)", tok.Line, tok.Column)
	}
	if ctx := nodeContext(v.Node); ctx != "" {
		text += fmt.Sprintf(" | context: %s", ctx)
	}
	return text
}

func nodeContext(node ast.Node) string {
	ctx := strings.TrimSpace(node.String())
	if ctx == "" {
		ctx = strings.TrimSpace(node.TokenLiteral())
	}
	if len(ctx) > 140 {
		ctx = ctx[:140] + "..."
	}
	return ctx
}

func (cg *CodeGen) fail(node ast.Node, reason string) {
	cg.errors = append(cg.errors, &InvariantViolation{Node: node, Reason: reason})
}

func (cg *CodeGen) failf(node ast.Node, format string, args ...interface{}) {
	cg.fail(node, fmt.Sprintf(format, args...))
}

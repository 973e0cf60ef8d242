// Package support holds the data-section literal pool and the catalogue of
// canned runtime routines.
package support

import (
	"fmt"

	"github.com/louisheal/wacc/internal/arm"
)

// Entry is one pooled literal.
type Entry struct {
	Label string
	Value string // raw bytes, including any embedded NUL
}

// Pool interns string literals and runtime messages. Each distinct value
// gets one msg_<n> label, numbered in first-use order.
type Pool struct {
	labels  map[string]string
	entries []Entry
}

func NewPool() *Pool {
	return &Pool{labels: make(map[string]string)}
}

// Intern returns the label for value, allocating one on first use.
func (p *Pool) Intern(value string) string {
	if label, ok := p.labels[value]; ok {
		return label
	}
	label := fmt.Sprintf("msg_%d", len(p.entries))
	p.labels[value] = label
	p.entries = append(p.entries, Entry{Label: label, Value: value})
	return label
}

// Len is the number of pooled literals.
func (p *Pool) Len() int { return len(p.entries) }

// Instructions renders the pool for the data section: a label, a length
// word and the raw bytes per entry.
func (p *Pool) Instructions() []arm.Instruction {
	out := make([]arm.Instruction, 0, 3*len(p.entries))
	for _, e := range p.entries {
		out = append(out,
			arm.Label(e.Label),
			arm.Word(len(e.Value)),
			arm.Ascii(e.Value),
		)
	}
	return out
}

package support

import (
	mapset "github.com/deckarep/golang-set"

	"github.com/louisheal/wacc/internal/arm"
)

// Catalogue records which routines a program needs. Each is emitted once,
// in the order it was first required.
type Catalogue struct {
	seen  mapset.Set
	order []Routine
}

func NewCatalogue() *Catalogue {
	return &Catalogue{seen: mapset.NewThreadUnsafeSet()}
}

// Require records r and everything r calls, and returns r's label for the
// caller to branch to.
func (c *Catalogue) Require(r Routine) string {
	if c.seen.Add(r) {
		c.order = append(c.order, r)
		for _, dep := range r.Deps() {
			c.Require(dep)
		}
	}
	return r.Label()
}

// Instructions instantiates every required routine once.
func (c *Catalogue) Instructions(pool *Pool) []arm.Instruction {
	var out []arm.Instruction
	for _, r := range c.order {
		out = append(out, r.Instructions(pool)...)
	}
	return out
}

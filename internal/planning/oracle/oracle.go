package oracle

import "gonum.org/v1/gonum/spatial/r3"

// Oracle answers whether a world point can be occupied by the vehicle. The
// answer must be stable within one expand or update call but may change
// between planning cycles.
type Oracle interface {
	IsTraversable(p r3.Vec) bool
}

// Func adapts a plain predicate to the Oracle interface.
type Func func(p r3.Vec) bool

// IsTraversable calls f(p).
func (f Func) IsTraversable(p r3.Vec) bool { return f(p) }

// AllFree is an oracle that accepts every point.
var AllFree Oracle = Func(func(r3.Vec) bool { return true })

// AllBlocked is an oracle that rejects every point.
var AllBlocked Oracle = Func(func(r3.Vec) bool { return false })

package generator

import (
	"errors"
	"math"
	"math/rand/v2"

	"github.com/banshee-data/explore.planner/internal/monitoring"
	"github.com/banshee-data/explore.planner/internal/planning/oracle"
	"github.com/banshee-data/explore.planner/internal/planning/segment"
	"github.com/banshee-data/explore.planner/internal/units"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomLinear samples straight-line motions from the end of a segment. Each
// candidate follows an accelerate-cruise-decelerate velocity profile and is
// kept only if every simulated point is traversable.
//
// A RandomLinear is not safe for concurrent use: its random source is shared
// across calls. Expand disjoint subtrees in parallel with one generator each.
type RandomLinear struct {
	params RandomLinearParams
	oracle oracle.Oracle

	yaw      distuv.Uniform // [0, 2pi)
	theta    distuv.Uniform // polar angle [0, pi]
	distance distuv.Uniform // [min_distance, max_distance]
}

// linearTarget is one sampled candidate motion.
type linearTarget struct {
	direction     r3.Vec  // Unit travel direction
	yaw           float64 // Heading held along the whole segment
	decelDistance float64 // Distance along the path at which braking begins
}

// NewRandomLinear validates params and builds the generator. src drives every
// random draw; pass a seeded source for reproducible expansion, or nil to use
// the global generator. A nil oracle is a construction error.
func NewRandomLinear(params RandomLinearParams, o oracle.Oracle, src rand.Source) (*RandomLinear, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if o == nil {
		return nil, errors.New("random_linear requires a collision oracle")
	}
	return &RandomLinear{
		params:   params,
		oracle:   o,
		yaw:      distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src},
		theta:    distuv.Uniform{Min: 0, Max: math.Pi, Src: src},
		distance: distuv.Uniform{Min: params.MinDistance, Max: params.MaxDistance, Src: src},
	}, nil
}

// GetParams returns the generator parameters.
func (g *RandomLinear) GetParams() RandomLinearParams {
	return g.params
}

// Oracle returns the collision oracle the generator checks against.
func (g *RandomLinear) Oracle() oracle.Oracle {
	return g.oracle
}

// ExpandSegment implements Expander.
func (g *RandomLinear) ExpandSegment(target *segment.Segment, out []*segment.Segment) ([]*segment.Segment, bool) {
	if target == nil {
		return out, false
	}
	target.Visited = true

	start, ok := target.LastWaypoint()
	if !ok {
		monitoring.Debugf("random_linear: target has no trajectory to launch from")
		return out, false
	}

	accepted := 0
	tries := 0
	for accepted < g.params.NSegments && tries < g.params.MaxTries {
		tries++
		trajectory, ok := g.buildTrajectory(start.Position, g.sampleTarget())
		if !ok {
			continue
		}
		child := &segment.Segment{Trajectory: trajectory}
		target.AddChild(child)
		out = append(out, child)
		accepted++
	}

	if accepted == 0 {
		monitoring.Debugf("random_linear: dead end after %d tries from %v", tries, start.Position)
	}
	return out, accepted > 0
}

// sampleTarget draws a direction, travel distance and heading.
func (g *RandomLinear) sampleTarget() linearTarget {
	yaw := g.yaw.Rand()
	theta := g.theta.Rand()
	distance := g.distance.Rand()
	if g.params.Planar {
		theta = 0.5 * math.Pi
	}

	// Approximation of the braking point: exact for a trapezoidal profile, but
	// when v_max^2/a_max exceeds the distance (triangular profile) the vehicle
	// does not come to rest exactly at distance.
	decel := distance - math.Min(g.params.VMax*g.params.VMax/g.params.AMax, distance)/2

	target := linearTarget{
		direction: r3.Vec{
			X: math.Sin(theta) * math.Cos(yaw),
			Y: math.Sin(theta) * math.Sin(yaw),
			Z: math.Cos(theta),
		},
		yaw:           yaw,
		decelDistance: decel,
	}
	if g.params.SampleYaw {
		target.yaw = g.yaw.Rand()
	}
	return target
}

// buildTrajectory simulates the velocity profile toward target, checking each
// point as it is produced. It returns false on the first blocked point, or if
// the profile ends before producing any point.
func (g *RandomLinear) buildTrajectory(start r3.Vec, target linearTarget) ([]segment.Waypoint, bool) {
	rate := g.params.SamplingRate
	dv := g.params.AMax / rate
	dt := 1.0 / rate
	yaw := units.NormalizeYaw(target.yaw)

	var trajectory []segment.Waypoint
	x, v, t := 0.0, 0.0, 0.0
	for {
		if x < target.decelDistance {
			v = math.Min(v+dv, g.params.VMax)
		} else {
			v -= dv
		}
		if v < 0 {
			break
		}
		t += dt
		x += v / rate

		p := r3.Add(start, r3.Scale(x, target.direction))
		if !g.oracle.IsTraversable(p) {
			return nil, false
		}
		trajectory = append(trajectory, segment.Waypoint{
			Position:        p,
			Yaw:             yaw,
			TimeFromStartNs: units.SecondsToNanos(t),
		})
	}
	return trajectory, len(trajectory) > 0
}

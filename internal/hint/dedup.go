package hint

import (
	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/geom"
)

// DefaultRadius is the distance under which two action points collapse.
const DefaultRadius = 16.0

// RemoveDuplicates drops nodes whose action point lies within radius of
// an earlier kept node, and nodes without an action point. Order is
// preserved.
func RemoveDuplicates(nodes []*ax.Node, radius float64) []*ax.Node {
	kept := make([]*ax.Node, 0, len(nodes))
	points := make([]geom.Point, 0, len(nodes))
outer:
	for _, n := range nodes {
		p, ok := n.ActionPoint()
		if !ok {
			continue
		}
		for _, q := range points {
			if p.Distance(q) <= radius {
				continue outer
			}
		}
		kept = append(kept, n)
		points = append(points, p)
	}
	return kept
}

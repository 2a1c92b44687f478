package hint

import (
	"strings"

	"github.com/dshills/keyhint/internal/ax"
	"github.com/dshills/keyhint/internal/geom"
)

// Hint is a node with the label typed to select it.
type Hint struct {
	Label string
	Node  *ax.Node
}

// Anchor returns where the label is drawn.
func (h Hint) Anchor() geom.Point {
	p, _ := h.Node.ActionPoint()
	return p
}

// Assign labels nodes in order. Nodes without an action point must
// already have been removed.
func Assign(g *Generator, nodes []*ax.Node) []Hint {
	labels := g.Labels(len(nodes))
	hints := make([]Hint, len(nodes))
	for i, n := range nodes {
		hints[i] = Hint{Label: labels[i], Node: n}
	}
	return hints
}

// CountPrefixed returns how many labels start with prefix and the index
// of the first one, or -1.
func CountPrefixed(labels []string, prefix string) (count, first int) {
	first = -1
	for i, l := range labels {
		if strings.HasPrefix(l, prefix) {
			if first < 0 {
				first = i
			}
			count++
		}
	}
	return count, first
}

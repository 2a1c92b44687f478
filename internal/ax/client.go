package ax

import (
	"errors"

	"github.com/dshills/keyhint/internal/geom"
)

// Handle is an opaque reference to a live accessibility element.
// Two handles are equal exactly when they refer to the same element.
type Handle uint64

// Attribute names understood by Node.
const (
	AttrRole        = "AXRole"
	AttrPosition    = "AXPosition"
	AttrSize        = "AXSize"
	AttrTitle       = "AXTitle"
	AttrValue       = "AXValue"
	AttrDescription = "AXDescription"
	AttrLabel       = "AXLabel"
)

// ErrNoValue is returned by clients when an attribute is not set.
var ErrNoValue = errors.New("attribute has no value")

// Client is the accessibility query interface. Implementations may be
// called from many goroutines at once.
//
// Attribute returns string values for textual attributes, geom.Point for
// AXPosition and geom.Size for AXSize. Any other dynamic type is treated
// as absent by Node.
type Client interface {
	Attribute(h Handle, name string) (any, error)
	Children(h Handle) ([]Handle, error)
	Actions(h Handle) ([]string, error)
}

func stringAttr(c Client, h Handle, name string) (string, bool) {
	v, err := c.Attribute(h, name)
	if err != nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func boundsAttr(c Client, h Handle) (geom.Rect, bool) {
	pv, err := c.Attribute(h, AttrPosition)
	if err != nil {
		return geom.Rect{}, false
	}
	pos, ok := pv.(geom.Point)
	if !ok {
		return geom.Rect{}, false
	}
	sv, err := c.Attribute(h, AttrSize)
	if err != nil {
		return geom.Rect{}, false
	}
	size, ok := sv.(geom.Size)
	if !ok {
		return geom.Rect{}, false
	}
	return geom.Rect{Origin: pos, Size: size}, true
}

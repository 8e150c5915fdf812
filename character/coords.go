package character

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidCoordinateFormat = errors.New("character: coordinates must look like vector3(x, y, z), heading")

// Coords is the position blob stored in the characters table.
type Coords struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading"`
}

// ParseCoords reads the "vector3(x, y, z), heading" notation used by the
// game's console and by the safe-coordinate list.
func ParseCoords(s string) (Coords, error) {
	vec, heading, ok := strings.Cut(s, "),")
	if !ok {
		return Coords{}, fmt.Errorf("%w: missing \"),\" separator in %q", ErrInvalidCoordinateFormat, s)
	}
	vec = strings.TrimPrefix(strings.TrimSpace(vec), "vector3(")
	parts := strings.Split(vec, ",")
	if len(parts) != 3 {
		return Coords{}, fmt.Errorf("%w: want 3 components, got %d", ErrInvalidCoordinateFormat, len(parts))
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := parseComponent(p)
		if err != nil {
			return Coords{}, err
		}
		xyz[i] = f
	}
	h, err := parseComponent(heading)
	if err != nil {
		return Coords{}, err
	}
	return Coords{X: xyz[0], Y: xyz[1], Z: xyz[2], Heading: h}, nil
}

// parseComponent reads one finite number; NaN and infinities cannot be
// stored in the JSON coords column.
func parseComponent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidCoordinateFormat, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", ErrInvalidCoordinateFormat, s)
	}
	return f, nil
}

// String formats c so that ParseCoords(c.String()) == c.
func (c Coords) String() string {
	return fmt.Sprintf("vector3(%s, %s, %s), %s", ftoa(c.X), ftoa(c.Y), ftoa(c.Z), ftoa(c.Heading))
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

package character

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoords(t *testing.T) {
	c, err := ParseCoords("vector3(-278.5, 804.1, 119.3), 89.0")
	require.NoError(t, err)
	assert.Equal(t, Coords{X: -278.5, Y: 804.1, Z: 119.3, Heading: 89.0}, c)
}

func TestCoords_RoundTrip(t *testing.T) {
	in := "vector3(-278.5, 804.1, 119.3), 89.0"
	c, err := ParseCoords(in)
	require.NoError(t, err)

	again, err := ParseCoords(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, again)
	assert.Equal(t, "vector3(-278.5, 804.1, 119.3), 89", c.String())
}

func TestParseCoords_Whitespace(t *testing.T) {
	c, err := ParseCoords("  vector3(1,2,3),4  ")
	require.NoError(t, err)
	assert.Equal(t, Coords{X: 1, Y: 2, Z: 3, Heading: 4}, c)
}

func TestParseCoords_Invalid(t *testing.T) {
	cases := map[string]string{
		"no separator":    "vector3(1, 2, 3) 4",
		"two components":  "vector3(1, 2), 4",
		"four components": "vector3(1, 2, 3, 5), 4",
		"bad number":      "vector3(1, abc, 3), 4",
		"bad heading":     "vector3(1, 2, 3), north",
		"empty":           "",
		"nan component":   "vector3(NaN, 1, 2), 3",
		"inf heading":     "vector3(1, 2, 3), Inf",
		"negative inf":    "vector3(1, -Inf, 3), 4",
		"signed inf":      "vector3(1, 2, +Inf), 4",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCoords(in)
			assert.ErrorIs(t, err, ErrInvalidCoordinateFormat)
		})
	}
}

func TestParseCoords_SurfacesNumericError(t *testing.T) {
	_, err := ParseCoords("vector3(1, x, 3), 4")
	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
}

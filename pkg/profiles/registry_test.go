package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInternsByContent(t *testing.T) {
	r := NewRegistry()

	idOne, err := r.Intern(EdgeAttributes{"highway": "residential", "maxspeed": "30"})
	require.NoError(t, err)
	idTwo, err := r.Intern(EdgeAttributes{"maxspeed": "30", "highway": "residential"})
	require.NoError(t, err)
	idThree, err := r.Intern(EdgeAttributes{"highway": "primary"})
	require.NoError(t, err)

	assert.Equal(t, idOne, idTwo)
	assert.NotEqual(t, idOne, idThree)
	assert.Equal(t, 2, r.Len())
}

func TestRegistryGetUnknownID(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get(3)
	require.Error(t, err)
}

func TestRegistryCopiesAttributes(t *testing.T) {
	r := NewRegistry()
	attrs := EdgeAttributes{"highway": "residential"}
	id, err := r.Intern(attrs)
	require.NoError(t, err)

	attrs["highway"] = "motorway"

	stored, err := r.Get(id)
	require.NoError(t, err)
	highway, _ := stored.Get("highway")
	assert.Equal(t, "residential", highway)
}

func TestCarProfileFactors(t *testing.T) {
	car := NewCarProfile()

	testCases := []struct {
		name          string
		attrs         EdgeAttributes
		traversable   bool
		wantDirection Direction
	}{
		{
			name:          "residential both ways",
			attrs:         EdgeAttributes{"highway": "residential"},
			traversable:   true,
			wantDirection: DirectionBoth,
		},
		{
			name:          "oneway primary",
			attrs:         EdgeAttributes{"highway": "primary", "oneway": "yes"},
			traversable:   true,
			wantDirection: DirectionForward,
		},
		{
			name:          "reversed oneway",
			attrs:         EdgeAttributes{"highway": "primary", "oneway": "-1"},
			traversable:   true,
			wantDirection: DirectionBackward,
		},
		{
			name:          "implicit motorway oneway",
			attrs:         EdgeAttributes{"highway": "motorway"},
			traversable:   true,
			wantDirection: DirectionForward,
		},
		{
			name:        "footway not for cars",
			attrs:       EdgeAttributes{"highway": "footway"},
			traversable: false,
		},
		{
			name:        "private access",
			attrs:       EdgeAttributes{"highway": "residential", "access": "private"},
			traversable: false,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			f := car.Factor(tt.attrs)
			assert.Equal(t, tt.traversable, f.Traversable())
			if tt.traversable {
				assert.Equal(t, tt.wantDirection, f.Direction)
				assert.Greater(t, f.Value, 0.0)
			}
		})
	}
}

func TestCarProfileCanStop(t *testing.T) {
	car := NewCarProfile()
	assert.True(t, car.CanStop(EdgeAttributes{"highway": "residential"}))
	assert.False(t, car.CanStop(EdgeAttributes{"highway": "motorway"}))
	assert.False(t, car.CanStop(EdgeAttributes{"highway": "trunk_link"}))
}

func TestCarProfileMaxspeedTag(t *testing.T) {
	car := NewCarProfile()
	slow := car.Factor(EdgeAttributes{"highway": "residential", "maxspeed": "20"})
	fast := car.Factor(EdgeAttributes{"highway": "residential", "maxspeed": "60"})
	// lower speed means a larger seconds-per-meter factor
	assert.Greater(t, slow.Value, fast.Value)
}

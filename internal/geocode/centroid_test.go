package geocode

import (
	"context"
	"strings"
	"testing"

	"mgnrega-api/internal/district"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCentroidSeatsAreCanonical(t *testing.T) {
	require.Len(t, districtSeats, len(district.Canonical))
	for _, s := range districtSeats {
		assert.True(t, district.IsCanonical(s.Name), s.Name)
	}
}

func TestCentroidNearestSeat(t *testing.T) {
	p := NewCentroid(0)
	cases := []struct {
		name string
		c    Coordinate
		want string
	}{
		{"pune city", Coordinate{Lat: 18.53, Lon: 73.85}, "PUNE"},
		{"near nagpur", Coordinate{Lat: 21.10, Lon: 79.05}, "NAGPUR"},
		{"kolhapur outskirts", Coordinate{Lat: 16.74, Lon: 74.20}, "KOLHAPUR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := p.Reverse(context.Background(), tc.c)
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.District)
			assert.Equal(t, district.RegionName, f.State)
			assert.True(t, strings.HasPrefix(f.Accuracy, "approx:"), f.Accuracy)
		})
	}
}

func TestCentroidOutsideRegion(t *testing.T) {
	f, err := NewCentroid(60).Reverse(context.Background(), Coordinate{Lat: 28.61, Lon: 77.20})
	require.NoError(t, err)
	assert.Equal(t, Fields{}, f)
}

func TestCentroidSeatsInsideBoundary(t *testing.T) {
	for _, s := range districtSeats {
		assert.True(t, insideBoundary(Coordinate{Lat: s.Lat, Lon: s.Lon}), s.Name)
	}
}

// 外接矩形内、靠近县治所的邻邦地点
func TestCentroidRejectsNeighbouringStates(t *testing.T) {
	p := NewCentroid(60)
	cases := []struct {
		name string
		c    Coordinate
	}{
		{"balaghat mp", Coordinate{Lat: 21.81, Lon: 80.18}},
		{"burhanpur mp", Coordinate{Lat: 21.31, Lon: 76.23}},
		{"nipani karnataka", Coordinate{Lat: 16.40, Lon: 74.38}},
		{"belagavi karnataka", Coordinate{Lat: 15.85, Lon: 74.50}},
		{"bidar karnataka", Coordinate{Lat: 17.91, Lon: 77.52}},
		{"adilabad telangana", Coordinate{Lat: 19.67, Lon: 78.53}},
		{"silvassa dnh", Coordinate{Lat: 20.27, Lon: 73.00}},
		{"panaji goa", Coordinate{Lat: 15.49, Lon: 73.83}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, insideBoundary(tc.c))
			f, err := p.Reverse(context.Background(), tc.c)
			require.NoError(t, err)
			assert.Equal(t, Fields{}, f)
		})
	}
}

func TestCentroidOutOfStateExhausts(t *testing.T) {
	r := NewResolver("Maharashtra", nil, newMockProvider("google", false), NewCentroid(60))
	_, err := r.Resolve(context.Background(), Coordinate{Lat: 21.81, Lon: 80.18})
	e, ok := IsExhausted(err)
	require.True(t, ok, "%v", err)
	require.Len(t, e.Attempts, 2)
	assert.Equal(t, OutcomeInsufficient, e.Attempts[1].Outcome)
}

func TestCentroidBeyondMaxDistance(t *testing.T) {
	// 距最近县治所数十公里，超出 1km 限制
	f, err := NewCentroid(1).Reverse(context.Background(), Coordinate{Lat: 19.40, Lon: 74.30})
	require.NoError(t, err)
	assert.Empty(t, f.District)
}

func TestCentroidAsLastResort(t *testing.T) {
	p1 := newMockProvider("google", false)
	r := NewResolver("Maharashtra", nil, p1, NewCentroid(60))
	res, err := r.Resolve(context.Background(), Coordinate{Lat: 19.88, Lon: 75.34})
	require.NoError(t, err)
	assert.Equal(t, "centroid", res.Provider)
	assert.Equal(t, "CHHATRAPATI SAMBHAJINAGAR", res.District)
}

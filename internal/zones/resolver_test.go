package zones_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/EmpoweredVote/EV-Complaints/internal/zones"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(code string, minLat, minLng, maxLat, maxLng float64) zones.Zone {
	return zones.Zone{
		ID:   uuid.New(),
		Code: code,
		Name: code,
		Polygon: zones.Polygon{
			{Lat: minLat, Lng: minLng},
			{Lat: minLat, Lng: maxLng},
			{Lat: maxLat, Lng: maxLng},
			{Lat: maxLat, Lng: minLng},
		},
		Active: true,
	}
}

var (
	zoneA = square("a", 0, 0, 10, 10)
	zoneB = square("b", -5, -5, 15, 15)
)

func TestResolve_SquareScenario(t *testing.T) {
	got, err := zones.Resolve(zones.Point{Lat: 5, Lng: 5}, []zones.Zone{zoneA})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Code)

	got, err = zones.Resolve(zones.Point{Lat: 20, Lng: 20}, []zones.Zone{zoneA})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_OverlapFirstWins(t *testing.T) {
	p := zones.Point{Lat: 5, Lng: 5}

	got, err := zones.Resolve(p, []zones.Zone{zoneA, zoneB})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Code)

	got, err = zones.Resolve(p, []zones.Zone{zoneB, zoneA})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Code)

	// inside B only
	got, err = zones.Resolve(zones.Point{Lat: 12, Lng: 12}, []zones.Zone{zoneA, zoneB})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Code)
}

func TestResolve_StrictlyInsideExactlyOne(t *testing.T) {
	east := square("east", 0, 20, 10, 30)
	got, err := zones.Resolve(zones.Point{Lat: 3, Lng: 25}, []zones.Zone{zoneA, east})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "east", got.Code)
}

func TestResolve_NonConvexPolygon(t *testing.T) {
	// U shape opening north; the notch between the arms is outside.
	u := zones.Zone{Code: "u", Polygon: zones.Polygon{
		{Lat: 0, Lng: 0}, {Lat: 0, Lng: 9}, {Lat: 9, Lng: 9}, {Lat: 9, Lng: 6},
		{Lat: 3, Lng: 6}, {Lat: 3, Lng: 3}, {Lat: 9, Lng: 3}, {Lat: 9, Lng: 0},
	}}

	got, err := zones.Resolve(zones.Point{Lat: 6, Lng: 1.5}, []zones.Zone{u})
	require.NoError(t, err)
	assert.NotNil(t, got, "left arm")

	got, err = zones.Resolve(zones.Point{Lat: 6, Lng: 4.5}, []zones.Zone{u})
	require.NoError(t, err)
	assert.Nil(t, got, "notch")
}

func TestResolve_BoundaryCountsAsInside(t *testing.T) {
	cases := []struct {
		name string
		p    zones.Point
	}{
		{"south edge", zones.Point{Lat: 0, Lng: 5}},
		{"east edge", zones.Point{Lat: 5, Lng: 10}},
		{"north edge", zones.Point{Lat: 10, Lng: 5}},
		{"west edge", zones.Point{Lat: 5, Lng: 0}},
		{"corner", zones.Point{Lat: 10, Lng: 10}},
		{"origin vertex", zones.Point{Lat: 0, Lng: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := zones.Resolve(tc.p, []zones.Zone{zoneA})
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "a", got.Code)
		})
	}

	got, err := zones.Resolve(zones.Point{Lat: 10.0000001, Lng: 5}, []zones.Zone{zoneA})
	require.NoError(t, err)
	assert.Nil(t, got, "just outside the north edge")
}

func TestResolve_OpenAndClosedRingsAgree(t *testing.T) {
	open := zones.Zone{Code: "tri", Polygon: zones.Polygon{
		{Lat: 0, Lng: 0}, {Lat: 8, Lng: 2}, {Lat: 3, Lng: 9},
	}}
	closed := open
	closed.Polygon = open.Polygon.Closed()
	require.Len(t, closed.Polygon, 4)
	require.Len(t, open.Polygon, 3, "Closed must not modify its receiver")

	for lat := -1.0; lat <= 10; lat += 0.5 {
		for lng := -1.0; lng <= 10; lng += 0.5 {
			p := zones.Point{Lat: lat, Lng: lng}
			a, err := zones.Resolve(p, []zones.Zone{open})
			require.NoError(t, err)
			b, err := zones.Resolve(p, []zones.Zone{closed})
			require.NoError(t, err)
			assert.Equal(t, a != nil, b != nil, "point %v", p)
		}
	}
}

func TestResolve_SkipsMalformedZones(t *testing.T) {
	var stringly zones.Polygon
	require.NoError(t, json.Unmarshal([]byte(`[[0,0],[0,"ten"],[10,10],[10,0]]`), &stringly))

	malformed := []zones.Zone{
		{Code: "empty"},
		{Code: "two-points", Polygon: zones.Polygon{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}}},
		{Code: "closed-two", Polygon: zones.Polygon{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}, {Lat: 0, Lng: 0}}},
		{Code: "nan", Polygon: zones.Polygon{{Lat: 0, Lng: 0}, {Lat: math.NaN(), Lng: 10}, {Lat: 10, Lng: 10}}},
		{Code: "collinear", Polygon: zones.Polygon{{Lat: 0, Lng: 0}, {Lat: 5, Lng: 5}, {Lat: 10, Lng: 10}}},
		{Code: "non-numeric", Polygon: stringly},
	}

	got, err := zones.Resolve(zones.Point{Lat: 5, Lng: 5}, append(malformed, zoneA))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a", got.Code)

	got, err = zones.Resolve(zones.Point{Lat: 5, Lng: 5}, malformed)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_InvalidPoint(t *testing.T) {
	bad := []zones.Point{
		{Lat: math.NaN(), Lng: 5},
		{Lat: 5, Lng: math.Inf(1)},
		{Lat: 91, Lng: 0},
		{Lat: 0, Lng: -180.5},
	}
	for _, p := range bad {
		got, err := zones.Resolve(p, []zones.Zone{zoneA})
		assert.ErrorIs(t, err, zones.ErrInvalidPoint, "point %v", p)
		assert.Nil(t, got)
	}
}

func TestResolve_NoZones(t *testing.T) {
	got, err := zones.Resolve(zones.Point{Lat: 1, Lng: 1}, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	zs := []zones.Zone{zoneA, zoneB}
	before := len(zs[0].Polygon)

	_, err := zones.Resolve(zones.Point{Lat: 5, Lng: 5}, zs)
	require.NoError(t, err)
	assert.Len(t, zs[0].Polygon, before)
}

func TestResolveAll(t *testing.T) {
	hits, err := zones.ResolveAll(zones.Point{Lat: 5, Lng: 5}, []zones.Zone{zoneB, {Code: "junk"}, zoneA})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "b", hits[0].Code)
	assert.Equal(t, "a", hits[1].Code)

	hits, err = zones.ResolveAll(zones.Point{Lat: 50, Lng: 50}, []zones.Zone{zoneA, zoneB})
	require.NoError(t, err)
	assert.Empty(t, hits)

	_, err = zones.ResolveAll(zones.Point{Lat: math.NaN()}, []zones.Zone{zoneA})
	assert.ErrorIs(t, err, zones.ErrInvalidPoint)
}

func TestPolygonValid(t *testing.T) {
	assert.True(t, zoneA.Polygon.Valid())
	assert.True(t, zoneA.Polygon.Closed().Valid())
	assert.False(t, zones.Polygon{}.Valid())
	assert.False(t, zones.Polygon{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 1, Lng: 1}}.Valid())
}

func TestActiveOrdered(t *testing.T) {
	c := square("c", 0, 0, 1, 1)
	c.SortOrder = 1
	b := square("b", 0, 0, 1, 1)
	b.SortOrder = 1
	a := square("a", 0, 0, 1, 1)
	a.SortOrder = 2
	off := square("off", 0, 0, 1, 1)
	off.Active = false

	in := []zones.Zone{a, c, off, b}
	got := zones.ActiveOrdered(in)

	codes := make([]string, 0, len(got))
	for _, z := range got {
		codes = append(codes, z.Code)
	}
	assert.Equal(t, []string{"b", "c", "a"}, codes)
	assert.Equal(t, "a", in[0].Code, "input left as is")
}

func TestResolve_BowtieRingIsSkipped(t *testing.T) {
	bowtie := zones.Zone{
		Code:    "bowtie",
		Polygon: zones.Polygon{{Lat: 0, Lng: 0}, {Lat: 10, Lng: 10}, {Lat: 10, Lng: 0}, {Lat: 0, Lng: 10}},
		Active:  true,
	}
	assert.False(t, bowtie.Polygon.Valid())

	got, err := zones.Resolve(zones.Point{Lat: 5, Lng: 2}, []zones.Zone{bowtie, zoneB})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Code)
}

package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSamePoint(t *testing.T) {
	p := Point{Lat: 46.0500, Lon: 14.5069}
	assert.Zero(t, Distance(p, p))
}

func TestDistanceSmallOffset(t *testing.T) {
	a := Point{Lat: 46.0500, Lon: 14.5069}
	b := Point{Lat: 46.0510, Lon: 14.5069}

	// 0.001 degrees of latitude is about 111 m anywhere on the globe.
	assert.InDelta(t, 111.2, Distance(a, b), 0.5)
	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistanceLjubljanaMaribor(t *testing.T) {
	ljubljana := Point{Lat: 46.0569, Lon: 14.5058}
	maribor := Point{Lat: 46.5547, Lon: 15.6459}

	assert.InDelta(t, 103_601, Distance(ljubljana, maribor), 5)
}

func TestDistanceOneDegreeOfEquator(t *testing.T) {
	// One degree of arc is R*pi/180.
	got := Distance(Point{Lat: 0, Lon: 0}, Point{Lat: 0, Lon: 1})
	assert.InDelta(t, EarthRadiusMeters*math.Pi/180, got, 1e-6)
}

func TestWithin(t *testing.T) {
	center := Point{Lat: 46.0500, Lon: 14.5069}

	assert.True(t, Within(center, center, 50))
	assert.True(t, Within(center, Point{Lat: 46.0504, Lon: 14.5069}, 50))
	assert.False(t, Within(center, Point{Lat: 46.0510, Lon: 14.5069}, 50))
}

package report

import (
	"bytes"
	"testing"

	"crash-clustering/internal/group"
	"crash-clustering/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScatterChart_Render(t *testing.T) {
	ds := &models.Dataset{
		Header: []string{"LATITUDE", "LONGITUDE"},
		Records: []models.Record{
			{Point: models.GeoPoint{Latitude: 41.880, Longitude: -87.630}},
			{Point: models.GeoPoint{Latitude: 41.881, Longitude: -87.631}},
			{Point: models.GeoPoint{Latitude: 41.890, Longitude: -87.640}},
		},
	}
	p, err := group.Group(3, []models.Label{0, 0, -1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewScatterChart("Chicago crashes").Render(&buf, ds, p))

	html := buf.String()
	assert.Contains(t, html, "Chicago crashes")
	assert.Contains(t, html, "cluster 00")
	assert.Contains(t, html, "noise")
}

func TestScatterChart_RenderEmpty(t *testing.T) {
	p, err := group.Group(0, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, NewScatterChart("empty").Render(&buf, &models.Dataset{}, p))
	assert.NotZero(t, buf.Len())
}

func TestExtent(t *testing.T) {
	minLon, maxLon, minLat, maxLat := extent([]models.GeoPoint{
		{Latitude: 41.9, Longitude: -87.6},
		{Latitude: 41.8, Longitude: -87.7},
	})

	assert.Equal(t, -87.7, minLon)
	assert.Equal(t, -87.6, maxLon)
	assert.Equal(t, 41.8, minLat)
	assert.Equal(t, 41.9, maxLat)
}

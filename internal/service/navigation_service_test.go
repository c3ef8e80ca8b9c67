package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-nav-api/pkg/geo"
)

func TestNavigationServiceBetweenBuildings(t *testing.T) {
	fx := newCampusFixture(t)
	svc := NewNavigationService(fx.store, geo.Estimator{SpeedMetersPerMinute: geo.DefaultWalkingSpeed})

	result, err := svc.Distance(context.Background(), Endpoint{BuildingID: &fx.academic.ID}, Endpoint{BuildingID: &fx.library.ID})
	require.NoError(t, err)
	assert.InDelta(t, 52, result.DistanceMeters, 10)
	assert.Equal(t, "Main Academic Building", result.From.Name)
	assert.Equal(t, 1, result.WalkingMinutes)
	assert.Equal(t, geo.FormatDistance(result.DistanceMeters), result.Distance)
}

func TestNavigationServiceMixedEndpoints(t *testing.T) {
	fx := newCampusFixture(t)
	svc := NewNavigationService(fx.store, geo.Estimator{})

	point := geo.Point{Lat: 12.816626, Lon: 74.932975}
	result, err := svc.Distance(context.Background(), Endpoint{BuildingID: &fx.library.ID}, Endpoint{Point: &point})
	require.NoError(t, err)
	assert.Equal(t, "1.1km", result.Distance)
	assert.Equal(t, 14, result.WalkingMinutes)

	missing := int64(404)
	_, err = svc.Distance(context.Background(), Endpoint{BuildingID: &missing}, Endpoint{Point: &point})
	assertStatus(t, err, http.StatusNotFound)

	_, err = svc.Distance(context.Background(), Endpoint{}, Endpoint{Point: &point})
	assertStatus(t, err, http.StatusBadRequest)
}

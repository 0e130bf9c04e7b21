package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildRoutePerDoorSides(t *testing.T) {
	pickup := Point{Label: "Warehouse A", Lat: 14.64, Lng: 121.03}
	origin := Point{Label: "Port of Manila", Lat: 14.60, Lng: 120.97}
	dest := Point{Label: "Port of Cebu", Lat: 10.29, Lng: 123.91}
	delivery := Point{Label: "Customer Site", Lat: 10.31, Lng: 123.89}

	cases := []struct {
		name          string
		needsPickup   bool
		needsDelivery bool
		want          []LegKind
	}{
		{"door to door", true, true, []LegKind{LegTruck, LegSea, LegTruck}},
		{"pier to pier", false, false, []LegKind{LegSea}},
		{"cy to door", false, true, []LegKind{LegSea, LegTruck}},
		{"door to cy", true, false, []LegKind{LegTruck, LegSea}},
	}

	for _, tc := range cases {
		legs := BuildRoute(tc.needsPickup, tc.needsDelivery, pickup, origin, dest, delivery)
		require.Len(t, legs, len(tc.want), tc.name)
		for i, leg := range legs {
			require.Equal(t, tc.want[i], leg.Kind, "%s leg %d", tc.name, i)
		}
	}

	legs := BuildRoute(true, true, pickup, origin, dest, delivery)
	require.Equal(t, "Warehouse A", legs[0].From.Label)
	require.Equal(t, "Port of Manila", legs[0].To.Label)
	require.Equal(t, "Port of Cebu", legs[1].To.Label)
	require.Equal(t, "Customer Site", legs[2].To.Label)
}

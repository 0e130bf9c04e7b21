package geo

// LegKind distinguishes road and sea segments on the wizard map.
type LegKind string

const (
	LegTruck LegKind = "TRUCK"
	LegSea   LegKind = "SEA"
)

// Point is a labelled coordinate on the route.
type Point struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Leg is one drawn route segment.
type Leg struct {
	Kind LegKind `json:"kind"`
	From Point   `json:"from"`
	To   Point   `json:"to"`
}

// BuildRoute derives the route segments: a truck-in leg when the origin side
// is a door, the sea leg between the ports, and a truck-out leg when the
// destination side is a door. Callers decide the door sides from the booking
// mode; pier-to-pier passes false twice and draws only the sea leg.
func BuildRoute(needsPickup, needsDelivery bool, pickup, origin, dest, delivery Point) []Leg {
	legs := make([]Leg, 0, 3)
	if needsPickup {
		legs = append(legs, Leg{Kind: LegTruck, From: pickup, To: origin})
	}
	legs = append(legs, Leg{Kind: LegSea, From: origin, To: dest})
	if needsDelivery {
		legs = append(legs, Leg{Kind: LegTruck, From: dest, To: delivery})
	}
	return legs
}

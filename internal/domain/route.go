package domain

// A point chosen by the user as a route endpoint.
// Name is a display label such as "My Location" or a town.
type NamedPoint struct {
	Coordinates
	Name string `json:"name,omitempty"`
}

// Represents a planned user route between two points.
// The corridor is a straight-line polyline densified from Start to End; it is
// an approximation used only to decide which records lie on the way.
type RoutePlan struct {
	Start       NamedPoint
	End         NamedPoint
	Corridor    []Coordinates
	ToleranceKm float64
}

// Result of matching records against a RoutePlan.
type RouteResult struct {
	Plan          RoutePlan
	Matches       []AnnotatedRecord
	CriticalCount int
}

package dto

import (
	"road-status-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type PointRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Name      string   `json:"name"`
}

// Point returns the request point, or nil when either axis is missing.
func (p *PointRequest) Point() *domain.NamedPoint {
	if p == nil || p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &domain.NamedPoint{
		Coordinates: domain.Coordinates{Lat: *p.Latitude, Lon: *p.Longitude},
		Name:        p.Name,
	}
}

type RouteRequest struct {
	Start       *PointRequest `json:"start"`
	End         *PointRequest `json:"end"`
	ToleranceKm *float64      `json:"tolerance_km"`
	Steps       int           `json:"steps"`
}

type RouteSummary struct {
	Matched        int     `json:"matched"`
	Critical       int     `json:"critical"`
	ToleranceKm    float64 `json:"tolerance_km"`
	StraightLineKm float64 `json:"straight_line_km"`
}

type RouteResponse struct {
	Start      domain.NamedPoint  `json:"start"`
	End        domain.NamedPoint  `json:"end"`
	Corridor   *geojson.Geometry  `json:"corridor"`
	Summary    RouteSummary       `json:"summary"`
	Roadworks  []RoadworkResponse `json:"roadworks"`
	Navigation map[string]string  `json:"navigation"`
}

// NewCorridorGeometry renders a corridor as a GeoJSON LineString.
func NewCorridorGeometry(corridor []domain.Coordinates) *geojson.Geometry {
	ls := make(orb.LineString, 0, len(corridor))
	for _, c := range corridor {
		ls = append(ls, orb.Point{c.Lon, c.Lat})
	}
	return geojson.NewGeometry(ls)
}

type NavigationResponse struct {
	RecordID    string            `json:"record_id"`
	Destination domain.NamedPoint `json:"destination"`
	URL         string            `json:"url"`
	Platform    string            `json:"platform"`
	ShareURL    string            `json:"share_url"`
	Alternate   *AlternateNav     `json:"alternate,omitempty"`
}

// AlternateNav is the navigation link for the record's default alternate
// route, from a structured option or from geocoded free text.
type AlternateNav struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

package dto

import (
	"road-status-service/internal/domain"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type CoordinatesResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RoadworkResponse struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	Road                 string               `json:"road,omitempty"`
	Section              string               `json:"section,omitempty"`
	Area                 string               `json:"area,omitempty"`
	Region               string               `json:"region,omitempty"`
	DerivedRegion        string               `json:"derived_region,omitempty"`
	Status               domain.Status        `json:"status"`
	Reason               string               `json:"reason,omitempty"`
	ExpectedDelayMinutes *int                 `json:"expected_delay_minutes,omitempty"`
	TrafficControl       string               `json:"traffic_control,omitempty"`
	StartDate            *time.Time           `json:"start_date,omitempty"`
	CreatedAt            *time.Time           `json:"created_at,omitempty"`
	Critical             bool                 `json:"critical"`
	Coordinates          *CoordinatesResponse `json:"coordinates"`
	LocationSource       string               `json:"location_source"`
	DistanceKm           *float64             `json:"distance_km,omitempty"`
	AlternativeRoute     string               `json:"alternative_route,omitempty"`
	ParsedAlternative    *ParsedRoute         `json:"parsed_alternative,omitempty"`
	AlternateRoutes      []domain.RouteOption `json:"alternate_routes,omitempty"`
}

// ParsedRoute is what was recognised in a free-text alternative route.
type ParsedRoute struct {
	Roads []string `json:"roads"`
	Towns []string `json:"towns"`
}

type ListRoadworksResponse struct {
	Count     int                `json:"count"`
	Roadworks []RoadworkResponse `json:"roadworks"`
}

type CriticalRoadworksResponse struct {
	Critical []RoadworkResponse `json:"critical"`
	Other    []RoadworkResponse `json:"other"`
}

func NewCoordinates(c *domain.Coordinates) *CoordinatesResponse {
	if c == nil {
		return nil
	}
	return &CoordinatesResponse{Latitude: c.Lat, Longitude: c.Lon}
}

// NewRoadwork maps the record fields; alternate routes are left for the
// caller, which decides which options are public.
func NewRoadwork(a domain.AnnotatedRecord, critical bool) RoadworkResponse {
	rec := a.Record
	return RoadworkResponse{
		ID:                   rec.ID,
		Title:                rec.Title,
		Road:                 rec.Road,
		Section:              rec.Section,
		Area:                 rec.Area,
		Region:               rec.Region,
		DerivedRegion:        a.Region,
		Status:               rec.Status,
		Reason:               rec.Reason,
		ExpectedDelayMinutes: rec.ExpectedDelayMinutes,
		TrafficControl:       rec.TrafficControl,
		StartDate:            rec.StartDate,
		CreatedAt:            rec.CreatedAt,
		Critical:             critical,
		Coordinates:          NewCoordinates(a.Coordinates),
		LocationSource:       string(a.Source),
		DistanceKm:           a.DistanceKm,
		AlternativeRoute:     rec.AlternativeRoute,
	}
}

// NewRoadworkFeatures renders located records as GeoJSON points; records
// without coordinates are omitted.
func NewRoadworkFeatures(recs []domain.AnnotatedRecord, critical func(domain.AnnotatedRecord) bool) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, a := range recs {
		if a.Coordinates == nil {
			continue
		}
		f := geojson.NewFeature(orb.Point{a.Coordinates.Lon, a.Coordinates.Lat})
		f.ID = a.Record.ID
		f.Properties["title"] = a.Record.Title
		f.Properties["status"] = string(a.Record.Status)
		f.Properties["critical"] = critical(a)
		if a.DistanceKm != nil {
			f.Properties["distance_km"] = *a.DistanceKm
		}
		fc.Append(f)
	}
	return fc
}

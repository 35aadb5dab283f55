package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Status is the published state of a roadwork, closure or advisory.
type Status string

const (
	StatusOpen               Status = "Open"
	StatusOngoing            Status = "Ongoing"
	StatusOngoingMaintenance Status = "Ongoing Maintenance"
	StatusPlanned            Status = "Planned"
	StatusPlannedWorks       Status = "Planned Works"
	StatusClosed             Status = "Closed"
	StatusRestricted         Status = "Restricted"
	StatusCompleted          Status = "Completed"
)

// Normalize collapses repeated whitespace so "Planned  Works" equals "Planned Works".
func (s Status) Normalize() Status {
	return Status(strings.Join(strings.Fields(string(s)), " "))
}

// RoadConditionRecord is one roadwork/closure/advisory as supplied by the
// record store. It is read-only to the engine: derived values live on
// AnnotatedRecord, never here.
type RoadConditionRecord struct {
	ID                   string
	Title                string
	Road                 string
	Section              string
	Area                 string
	Region               string
	Status               Status
	Reason               string
	ExpectedDelayMinutes *int
	TrafficControl       string
	StartDate            *time.Time
	CreatedAt            *time.Time
	UpdatedAt            *time.Time

	// SearchText is a geocoding query prepared by the record store.
	SearchText string

	// Location fields. At most one is authoritative; resolution order is
	// Coordinates > GeoJSON Location > legacy Location.
	Coordinates *LatLon
	Location    *RecordLocation

	AlternateRoutes  []RouteOption
	AlternativeRoute string
}

// LatLon is a possibly partial {latitude, longitude} pair as found in records.
type LatLon struct {
	Latitude  *float64
	Longitude *float64
}

// Complete returns the pair as Coordinates when both axes are present and valid.
func (l *LatLon) Complete() (Coordinates, bool) {
	if l == nil || l.Latitude == nil || l.Longitude == nil {
		return Coordinates{}, false
	}
	c := Coordinates{Lat: *l.Latitude, Lon: *l.Longitude}
	return c, c.Valid()
}

// RecordLocation holds either a GeoJSON point ([lon, lat]) or the legacy
// {latitude, longitude} object. Malformed is set when the GeoJSON
// coordinates array could not be read as numbers.
type RecordLocation struct {
	Type        string
	Coordinates []float64
	Malformed   bool
	Legacy      LatLon
}

// LocationErr returns ErrMalformedRecord when the record carried a location
// that could not be read, and nil otherwise.
func (r *RoadConditionRecord) LocationErr() error {
	if r != nil && r.Location != nil && r.Location.Malformed {
		return ErrMalformedRecord
	}
	return nil
}

// RouteOption is a structured alternate route attached to a record.
type RouteOption struct {
	RouteName           string        `json:"routeName"`
	Approved            bool          `json:"approved"`
	IsRecommended       bool          `json:"isRecommended"`
	DistanceKm          *float64      `json:"distanceKm,omitempty"`
	EstimatedTime       string        `json:"estimatedTime,omitempty"`
	VehicleType         []string      `json:"vehicleType,omitempty"`
	RoadsUsed           []string      `json:"roadsUsed,omitempty"`
	Waypoints           []Waypoint    `json:"waypoints,omitempty"`
	PolylineCoordinates []Coordinates `json:"polylineCoordinates,omitempty"`
}

type Waypoint struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

type recordJSON struct {
	ID                   string          `json:"id"`
	MongoID              string          `json:"_id"`
	Title                string          `json:"title"`
	Road                 string          `json:"road"`
	Section              string          `json:"section"`
	Area                 string          `json:"area"`
	Region               string          `json:"region"`
	Status               Status          `json:"status"`
	Reason               string          `json:"reason"`
	ExpectedDelayMinutes json.RawMessage `json:"expectedDelayMinutes"`
	TrafficControl       string          `json:"trafficControl"`
	StartDate            string          `json:"startDate"`
	CreatedAt            string          `json:"createdAt"`
	UpdatedAt            string          `json:"updatedAt"`
	SearchText           string          `json:"searchText"`
	Coordinates          json.RawMessage `json:"coordinates"`
	Location             json.RawMessage `json:"location"`
	AlternateRoutes      []RouteOption   `json:"alternateRoutes"`
	AlternativeRoute     string          `json:"alternativeRoute"`
}

// UnmarshalJSON decodes the record store's wire shape. Location and date
// fields are read leniently: values that cannot be interpreted are dropped
// instead of failing the whole record.
func (r *RoadConditionRecord) UnmarshalJSON(b []byte) error {
	var raw recordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	id := raw.ID
	if id == "" {
		id = raw.MongoID
	}

	*r = RoadConditionRecord{
		ID:               id,
		Title:            raw.Title,
		Road:             raw.Road,
		Section:          raw.Section,
		Area:             raw.Area,
		Region:           raw.Region,
		Status:           raw.Status.Normalize(),
		Reason:           raw.Reason,
		TrafficControl:   raw.TrafficControl,
		StartDate:        parseInstant(raw.StartDate),
		CreatedAt:        parseInstant(raw.CreatedAt),
		UpdatedAt:        parseInstant(raw.UpdatedAt),
		SearchText:       raw.SearchText,
		Coordinates:      decodeLatLon(raw.Coordinates),
		Location:         decodeLocation(raw.Location),
		AlternateRoutes:  raw.AlternateRoutes,
		AlternativeRoute: raw.AlternativeRoute,
	}

	if f := lenientFloat(raw.ExpectedDelayMinutes); f != nil && *f >= 0 {
		d := int(*f)
		r.ExpectedDelayMinutes = &d
	}

	return nil
}

// MarshalJSON writes the same shape UnmarshalJSON reads.
func (r RoadConditionRecord) MarshalJSON() ([]byte, error) {
	type latLonJSON struct {
		Latitude  *float64 `json:"latitude,omitempty"`
		Longitude *float64 `json:"longitude,omitempty"`
	}
	type locationJSON struct {
		Type        string    `json:"type,omitempty"`
		Coordinates []float64 `json:"coordinates,omitempty"`
		Latitude    *float64  `json:"latitude,omitempty"`
		Longitude   *float64  `json:"longitude,omitempty"`
	}
	out := struct {
		ID                   string        `json:"id"`
		Title                string        `json:"title,omitempty"`
		Road                 string        `json:"road,omitempty"`
		Section              string        `json:"section,omitempty"`
		Area                 string        `json:"area,omitempty"`
		Region               string        `json:"region,omitempty"`
		Status               Status        `json:"status,omitempty"`
		Reason               string        `json:"reason,omitempty"`
		ExpectedDelayMinutes *int          `json:"expectedDelayMinutes,omitempty"`
		TrafficControl       string        `json:"trafficControl,omitempty"`
		StartDate            *time.Time    `json:"startDate,omitempty"`
		CreatedAt            *time.Time    `json:"createdAt,omitempty"`
		UpdatedAt            *time.Time    `json:"updatedAt,omitempty"`
		SearchText           string        `json:"searchText,omitempty"`
		Coordinates          *latLonJSON   `json:"coordinates,omitempty"`
		Location             *locationJSON `json:"location,omitempty"`
		AlternateRoutes      []RouteOption `json:"alternateRoutes,omitempty"`
		AlternativeRoute     string        `json:"alternativeRoute,omitempty"`
	}{
		ID:                   r.ID,
		Title:                r.Title,
		Road:                 r.Road,
		Section:              r.Section,
		Area:                 r.Area,
		Region:               r.Region,
		Status:               r.Status,
		Reason:               r.Reason,
		ExpectedDelayMinutes: r.ExpectedDelayMinutes,
		TrafficControl:       r.TrafficControl,
		StartDate:            r.StartDate,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
		SearchText:           r.SearchText,
		AlternateRoutes:      r.AlternateRoutes,
		AlternativeRoute:     r.AlternativeRoute,
	}
	if r.Coordinates != nil {
		out.Coordinates = &latLonJSON{Latitude: r.Coordinates.Latitude, Longitude: r.Coordinates.Longitude}
	}
	if r.Location != nil && !r.Location.Malformed {
		out.Location = &locationJSON{
			Type:        r.Location.Type,
			Coordinates: r.Location.Coordinates,
			Latitude:    r.Location.Legacy.Latitude,
			Longitude:   r.Location.Legacy.Longitude,
		}
	}
	return json.Marshal(out)
}

func decodeLatLon(b json.RawMessage) *LatLon {
	if isNull(b) {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}
	ll := &LatLon{Latitude: lenientFloat(obj["latitude"]), Longitude: lenientFloat(obj["longitude"])}
	if ll.Latitude == nil && ll.Longitude == nil {
		return nil
	}
	return ll
}

func decodeLocation(b json.RawMessage) *RecordLocation {
	if isNull(b) {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return &RecordLocation{Malformed: true}
	}

	loc := &RecordLocation{}
	if t, ok := obj["type"]; ok {
		_ = json.Unmarshal(t, &loc.Type)
	}
	if c, ok := obj["coordinates"]; ok && !isNull(c) {
		var items []json.RawMessage
		if err := json.Unmarshal(c, &items); err != nil {
			loc.Malformed = true
		} else {
			for _, it := range items {
				f := lenientFloat(it)
				if f == nil {
					loc.Malformed = true
					loc.Coordinates = nil
					break
				}
				loc.Coordinates = append(loc.Coordinates, *f)
			}
		}
	}
	loc.Legacy = LatLon{Latitude: lenientFloat(obj["latitude"]), Longitude: lenientFloat(obj["longitude"])}
	return loc
}

// lenientFloat accepts JSON numbers and numeric strings.
func lenientFloat(b json.RawMessage) *float64 {
	if isNull(b) {
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		return &f
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInstant(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func isNull(b json.RawMessage) bool {
	b = bytes.TrimSpace(b)
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}

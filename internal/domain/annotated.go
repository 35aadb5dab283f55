package domain

// LocationSource names the rule that produced a resolved coordinate.
type LocationSource string

const (
	SourceNone       LocationSource = ""
	SourceExplicit   LocationSource = "explicit"
	SourceGeoJSON    LocationSource = "geojson"
	SourceLegacy     LocationSource = "legacy"
	SourceGeocoded   LocationSource = "geocoded"
	SourceUnresolved LocationSource = "unresolved"
)

// AnnotatedRecord pairs a read-only record with values derived for one
// query. Copies are cheap; the underlying record is shared.
type AnnotatedRecord struct {
	Record      *RoadConditionRecord
	Coordinates *Coordinates
	Source      LocationSource
	// Region derived from Coordinates; UnknownRegion when not classified.
	Region     string
	DistanceKm *float64
}

// EffectiveRegion prefers the record's own region over the derived one.
func (a AnnotatedRecord) EffectiveRegion() string {
	if a.Record != nil && a.Record.Region != "" {
		return a.Record.Region
	}
	return a.Region
}

package domain

import "errors"

// Non-fatal data-quality outcomes. Services convert these to "no result" at
// their public boundary; they are exported so adapters can wrap them.
var (
	ErrUnresolvableLocation  = errors.New("location could not be resolved")
	ErrGeocodingUnavailable  = errors.New("geocoding service unavailable")
	ErrInvalidRouteEndpoints = errors.New("route requires both start and end points")
	ErrMalformedRecord       = errors.New("record location fields are malformed")
	ErrNoResult              = errors.New("lookup returned no result")
	ErrRecordNotFound        = errors.New("road condition record not found")
)

package dto

type RegionLookupResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Region    string  `json:"region"`
	Source    string  `json:"source"`
}

type RegionsResponse struct {
	Regions []string `json:"regions"`
}

type ParseAlternateRequest struct {
	Text string `json:"text"`
}

type ParseAlternateResponse struct {
	Roads []string `json:"roads"`
	Towns []string `json:"towns"`
	Query string   `json:"query"`
}

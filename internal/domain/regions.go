package domain

// UnknownRegion is a valid classification result, not an error.
const UnknownRegion = ""

// The fourteen administrative regions of Namibia.
var Regions = []string{
	"Erongo",
	"Hardap",
	"ǁKaras",
	"Kavango East",
	"Kavango West",
	"Khomas",
	"Kunene",
	"Ohangwena",
	"Omaheke",
	"Omusati",
	"Oshana",
	"Oshikoto",
	"Otjozondjupa",
	"Zambezi",
}

// Windhoek, used as the map centre when no user location is known.
var DefaultCenter = Coordinates{Lat: -22.5597, Lon: 17.0832}

package services

import (
	"slices"
	"testing"
)

func TestAlternateRouteParserParse(t *testing.T) {
	p := NewAlternateRouteParser(nil)

	tests := []struct {
		text  string
		roads []string
		towns []string
	}{
		{"Use B2 via Karibib to Swakopmund", []string{"B2"}, []string{"Karibib", "Swakopmund"}},
		{"Use D1268 via Kalkrand", []string{"D1268"}, []string{"Kalkrand"}},
		{"Take the C28 to Walvis Bay, then B2 back to Walvis Bay", []string{"C28", "B2"}, []string{"Walvis Bay"}},
		{"Detour through Otjiwarongo and rejoin B1 at Otjiwarongo", []string{"B1"}, []string{"Otjiwarongo"}},
		{"continue on gravel past karibib", []string{}, []string{}},
		{"Drive to Lüderitz via B4", []string{"B4"}, []string{"Lüderitz"}},
		{"Go to Atlantis", []string{}, []string{}},
		{"", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := p.Parse(tt.text)
			if !slices.Equal(got.Roads, tt.roads) {
				t.Fatalf("roads: expected %v, got %v", tt.roads, got.Roads)
			}
			if !slices.Equal(got.Towns, tt.towns) {
				t.Fatalf("towns: expected %v, got %v", tt.towns, got.Towns)
			}
		})
	}
}

func TestAlternateRouteGeocodeQuery(t *testing.T) {
	p := NewAlternateRouteParser(nil)

	tests := []struct {
		text, query, label string
	}{
		{"Use B2 via Karibib to Swakopmund", "B2 Karibib Namibia", "B2 Karibib"},
		{"Follow the gravel road past Rehoboth", "Rehoboth Namibia", "Rehoboth"},
		{"Follow the detour signs", "Follow the detour signs Namibia", "Follow the detour signs"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			q, l := p.GeocodeQuery(tt.text, "Namibia")
			if q != tt.query || l != tt.label {
				t.Fatalf("expected (%q, %q), got (%q, %q)", tt.query, tt.label, q, l)
			}
		})
	}
}

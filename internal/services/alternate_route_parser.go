package services

import (
	"context"
	"regexp"
	"road-status-service/internal/domain"
	"strings"
)

// DefaultGazetteer lists the towns recognised in free-text route advice.
var DefaultGazetteer = []string{
	"Karibib", "Otjiwarongo", "Kalkrand", "Swakopmund", "Walvis Bay",
	"Windhoek", "Okahandja", "Rehoboth", "Mariental", "Gobabis",
	"Buitepos", "Rundu", "Katima Mulilo", "Outjo", "Keetmanshoop",
	"Lüderitz", "Oshakati", "Grootfontein", "Tsumeb", "Opuwo",
	"Epupa Falls", "Witvlei",
}

var (
	roadPattern = regexp.MustCompile(`\b[A-Z]\d+\b`)
	// preposition followed by a capitalised word; a second word is checked
	// separately so "to Walvis Bay" and "via Karibib to Swakopmund" both work
	townPattern  = regexp.MustCompile(`(?i)\b(?:via|at|to|through)\s+(\p{Lu}\p{L}*)`)
	nextWord     = regexp.MustCompile(`^\s+(\p{Lu}\p{L}*)`)
	queryRoadPat = regexp.MustCompile(`(?i)\b(?:use|via|route|road)\s+([a-z]\d+)`)
)

// ParsedRoute is what could be recognised in a free-text alternate route.
type ParsedRoute struct {
	Roads []string `json:"roads"`
	Towns []string `json:"towns"`
}

// AlternateRouteParser extracts road codes and gazetteer towns from text.
type AlternateRouteParser struct {
	towns map[string]string // lower-case name -> canonical name
}

func NewAlternateRouteParser(gazetteer []string) *AlternateRouteParser {
	if gazetteer == nil {
		gazetteer = DefaultGazetteer
	}
	towns := make(map[string]string, len(gazetteer))
	for _, t := range gazetteer {
		towns[strings.ToLower(t)] = t
	}
	return &AlternateRouteParser{towns: towns}
}

// Parse returns roads and towns in order of first appearance, de-duplicated.
// Towns are only recognised after a preposition and only if they are in the
// gazetteer.
func (p *AlternateRouteParser) Parse(text string) ParsedRoute {
	out := ParsedRoute{Roads: []string{}, Towns: []string{}}

	seenRoad := map[string]struct{}{}
	for _, r := range roadPattern.FindAllString(text, -1) {
		if _, ok := seenRoad[r]; ok {
			continue
		}
		seenRoad[r] = struct{}{}
		out.Roads = append(out.Roads, r)
	}

	seenTown := map[string]struct{}{}
	for _, m := range townPattern.FindAllStringSubmatchIndex(text, -1) {
		first := text[m[2]:m[3]]

		town, ok := "", false
		if nm := nextWord.FindStringSubmatch(text[m[3]:]); nm != nil {
			town, ok = p.towns[strings.ToLower(first+" "+nm[1])]
		}
		if !ok {
			town, ok = p.towns[strings.ToLower(first)]
		}
		if !ok {
			continue
		}
		if _, dup := seenTown[town]; dup {
			continue
		}
		seenTown[town] = struct{}{}
		out.Towns = append(out.Towns, town)
	}

	return out
}

// GeocodeQuery builds a best-effort query for the route: the first road
// named after use/via/route/road and the first recognised town, qualified
// by country. Falls back to the whole text.
func (p *AlternateRouteParser) GeocodeQuery(text, country string) (query string, label string) {
	text = normalizeQuery(text)
	if text == "" {
		return "", ""
	}

	terms := make([]string, 0, 2)
	if m := queryRoadPat.FindStringSubmatch(text); m != nil {
		terms = append(terms, strings.ToUpper(m[1]))
	}
	if towns := p.Parse(text).Towns; len(towns) > 0 {
		terms = append(terms, towns[0])
	} else if t := p.firstMentionedTown(text); t != "" {
		terms = append(terms, t)
	}

	if len(terms) == 0 {
		return normalizeQuery(text + " " + country), text
	}
	label = strings.Join(terms, " ")
	return normalizeQuery(label + " " + country), label
}

// firstMentionedTown finds a gazetteer town anywhere in text, earliest first.
func (p *AlternateRouteParser) firstMentionedTown(text string) string {
	lower := strings.ToLower(text)
	best, bestAt := "", -1
	for key, name := range p.towns {
		at := strings.Index(lower, key)
		if at < 0 {
			continue
		}
		if bestAt < 0 || at < bestAt || (at == bestAt && len(name) > len(best)) {
			best, bestAt = name, at
		}
	}
	return best
}

// ResolveAlternateRoute geocodes a record's free-text alternate route to a
// single navigable point. When the recognised terms find nothing the whole
// text is tried. ok is false when nothing could be resolved.
func (r *LocationResolver) ResolveAlternateRoute(
	ctx context.Context,
	parser *AlternateRouteParser,
	text string,
) (domain.NamedPoint, bool) {
	query, label := parser.GeocodeQuery(text, r.country)
	if query == "" {
		return domain.NamedPoint{}, false
	}

	c, err := r.geocodeKeyed(ctx, "alt:"+query, query)
	if err == nil {
		return domain.NamedPoint{Coordinates: c, Name: label}, true
	}

	full := normalizeQuery(text)
	if label == full || ctx.Err() != nil {
		return domain.NamedPoint{}, false
	}
	fallback := normalizeQuery(full + " " + r.country)
	if c, err := r.geocodeKeyed(ctx, "alt:"+fallback, fallback); err == nil {
		return domain.NamedPoint{Coordinates: c, Name: full}, true
	}
	return domain.NamedPoint{}, false
}

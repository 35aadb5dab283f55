package services

import (
	"errors"
	"fmt"
	"net/url"
	"road-status-service/internal/domain"
	"strings"
)

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
	PlatformWeb     Platform = "web"
)

var Platforms = []Platform{PlatformIOS, PlatformAndroid, PlatformWeb}

func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PlatformWeb, nil
	case PlatformIOS, PlatformAndroid, PlatformWeb:
		return p, nil
	default:
		return "", fmt.Errorf("unknown platform %q", s)
	}
}

// NavigationIntent describes a hand-off to an external turn-by-turn app.
// Origin nil means "from wherever the device is".
type NavigationIntent struct {
	Origin      *domain.Coordinates
	Destination domain.Coordinates
	Waypoints   []domain.Coordinates
	Label       string
}

// IntentForRecord navigates to a record's resolved location.
func IntentForRecord(a domain.AnnotatedRecord) (NavigationIntent, bool) {
	if a.Coordinates == nil || a.Record == nil {
		return NavigationIntent{}, false
	}
	label := a.Record.Title
	if label == "" {
		label = a.Record.Road
	}
	return NavigationIntent{Destination: *a.Coordinates, Label: label}, true
}

// IntentForRouteOption follows a structured alternate route from its first
// waypoint to its last, passing the ones in between.
func IntentForRouteOption(opt domain.RouteOption) (NavigationIntent, error) {
	if len(opt.Waypoints) == 0 {
		return NavigationIntent{}, errors.New("route option has no waypoints")
	}

	first := opt.Waypoints[0].Coordinates
	last := opt.Waypoints[len(opt.Waypoints)-1].Coordinates

	intent := NavigationIntent{Destination: last}
	if len(opt.Waypoints) > 1 {
		intent.Origin = &first
	}
	if len(opt.Waypoints) > 2 {
		for _, w := range opt.Waypoints[1 : len(opt.Waypoints)-1] {
			intent.Waypoints = append(intent.Waypoints, w.Coordinates)
		}
	}
	return intent, nil
}

// IntentForPlan navigates a planned route from start to end.
func IntentForPlan(plan domain.RoutePlan) NavigationIntent {
	start := plan.Start.Coordinates
	return NavigationIntent{Origin: &start, Destination: plan.End.Coordinates}
}

// AddressQuery is the "lat,lon" form accepted by most map apps.
func (n NavigationIntent) AddressQuery() string { return n.Destination.String() }

func (n NavigationIntent) waypointList() string {
	parts := make([]string, len(n.Waypoints))
	for i, w := range n.Waypoints {
		parts[i] = w.String()
	}
	return strings.Join(parts, "|")
}

// URL renders the intent as a deep link for platform.
func (n NavigationIntent) URL(p Platform) string {
	var b strings.Builder

	switch p {
	case PlatformIOS:
		b.WriteString("maps:?")
		if n.Origin != nil {
			b.WriteString("saddr=" + n.Origin.String() + "&")
		}
		b.WriteString("daddr=")
		if n.Label != "" {
			b.WriteString(escapeLabel(n.Label) + "@")
		}
		b.WriteString(n.Destination.String())
		if len(n.Waypoints) > 0 {
			b.WriteString("&waypoints=" + n.waypointList())
		} else {
			b.WriteString("&dirflg=d")
		}
	case PlatformAndroid:
		b.WriteString("google.navigation:q=" + n.Destination.String())
		if len(n.Waypoints) > 0 {
			b.WriteString("&waypoints=" + n.waypointList())
		}
	default:
		b.WriteString("https://www.google.com/maps/dir/?api=1")
		if n.Origin != nil {
			b.WriteString("&origin=" + n.Origin.String())
		}
		b.WriteString("&destination=" + n.Destination.String())
		if len(n.Waypoints) > 0 {
			b.WriteString("&waypoints=" + n.waypointList())
		}
	}

	return b.String()
}

// ShareLocationURL links to a single point on a web map.
func ShareLocationURL(c domain.Coordinates) string {
	return "https://www.google.com/maps?q=" + c.String()
}

// escapeLabel percent-encodes spaces as %20 rather than '+'.
func escapeLabel(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

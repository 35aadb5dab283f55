package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
	"road-status-service/internal/ports"
	"strings"
	"sync"
)

// A name fragment a reverse geocoder may return, and the canonical region
// it stands for.
type regionAlias struct {
	Name   string
	Region string
}

// Checked in order; the first bidirectional case-insensitive substring match
// wins. Historical names map to their current region.
var regionAliases = []regionAlias{
	{"Erongo", "Erongo"},
	{"Hardap", "Hardap"},
	{"Karas", "ǁKaras"},
	{"ǁKaras", "ǁKaras"},
	{"Kavango East", "Kavango East"},
	{"Kavango West", "Kavango West"},
	{"Khomas", "Khomas"},
	{"Kunene", "Kunene"},
	{"Ohangwena", "Ohangwena"},
	{"Omaheke", "Omaheke"},
	{"Omusati", "Omusati"},
	{"Oshana", "Oshana"},
	{"Oshikoto", "Oshikoto"},
	{"Otjozondjupa", "Otjozondjupa"},
	{"Zambezi", "Zambezi"},
	{"Caprivi", "Zambezi"},
}

// BoundingRule assigns Region to coordinates inside the inclusive box.
type BoundingRule struct {
	Region                         string
	MinLat, MaxLat, MinLon, MaxLon float64
}

func (b BoundingRule) Contains(c domain.Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// DefaultBoundingRules are the coarse offline fallback, first match wins.
// The capital's box comes first so Windhoek is classified without a
// reverse lookup.
var DefaultBoundingRules = []BoundingRule{
	{Region: "Khomas", MinLat: -22.7, MaxLat: -22.4, MinLon: 16.9, MaxLon: 17.2},
	{Region: "Khomas", MinLat: -22, MaxLat: -17, MinLon: 15, MaxLon: 16},
	{Region: "Hardap", MinLat: -22, MaxLat: -20, MinLon: 11, MaxLon: 16},
	{Region: "Erongo", MinLat: -22, MaxLat: -17, MinLon: 11, MaxLon: 13},
}

// RegionSource names how a region was decided.
type RegionSource string

const (
	RegionFromCache    RegionSource = "cache"
	RegionFromReverse  RegionSource = "reverse"
	RegionFromBounding RegionSource = "bounding"
	RegionUnknown      RegionSource = "unknown"
)

// RegionClassifier maps coordinates to one of the administrative regions.
// Reverse geocoding is preferred; the bounding table is the fallback.
type RegionClassifier struct {
	geocoder ports.Geocoder
	cache    ports.RegionCache
	rules    []BoundingRule

	mu    sync.RWMutex
	local map[string]string
}

func NewRegionClassifier(geocoder ports.Geocoder, cache ports.RegionCache, rules []BoundingRule) *RegionClassifier {
	if rules == nil {
		rules = DefaultBoundingRules
	}
	return &RegionClassifier{
		geocoder: geocoder,
		cache:    cache,
		rules:    rules,
		local:    map[string]string{},
	}
}

// MatchRegionName maps a free-text administrative name to a canonical region.
func MatchRegionName(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return domain.UnknownRegion, false
	}
	for _, a := range regionAliases {
		alias := strings.ToLower(a.Name)
		if strings.Contains(n, alias) || strings.Contains(alias, n) {
			return a.Region, true
		}
	}
	return domain.UnknownRegion, false
}

// RegionByBounds applies the bounding rules only.
func (rc *RegionClassifier) RegionByBounds(c domain.Coordinates) (string, bool) {
	for _, r := range rc.rules {
		if r.Contains(c) {
			return r.Region, true
		}
	}
	return domain.UnknownRegion, false
}

// cellKey buckets coordinates to roughly 1 km so nearby lookups share a
// cache entry.
func cellKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.2f,%.2f", math.Round(c.Lat*100)/100, math.Round(c.Lon*100)/100)
}

// Classify returns the region for c, or domain.UnknownRegion. It never fails:
// an unavailable geocoder degrades to the bounding rules.
func (rc *RegionClassifier) Classify(ctx context.Context, c domain.Coordinates) (string, RegionSource) {
	if !c.Valid() {
		return domain.UnknownRegion, RegionUnknown
	}

	key := cellKey(c)

	rc.mu.RLock()
	region, ok := rc.local[key]
	rc.mu.RUnlock()
	if ok {
		return region, RegionFromCache
	}

	if rc.cache != nil {
		region, ok, err := rc.cache.GetRegion(ctx, key)
		if err != nil {
			log.Printf("req_id=%s op=region.cache.get cell=%s err=%v", obs.RequestID(ctx), key, err)
		} else if ok && region != domain.UnknownRegion {
			rc.keep(key, region)
			return region, RegionFromCache
		}
	}

	if rc.geocoder != nil {
		addr, err := rc.geocoder.Reverse(ctx, c)
		if err != nil {
			log.Printf("req_id=%s op=region.reverse coord=%s err=%v", obs.RequestID(ctx), c, err)
		} else if region, ok := MatchRegionName(addr.AdministrativeName()); ok {
			rc.keep(key, region)
			rc.persist(ctx, key, region)
			return region, RegionFromReverse
		}
	}

	if region, ok := rc.RegionByBounds(c); ok {
		return region, RegionFromBounding
	}
	return domain.UnknownRegion, RegionUnknown
}

// AttachRegions returns copies of recs with Region set from their
// coordinates. Records without coordinates are left unknown.
func (rc *RegionClassifier) AttachRegions(ctx context.Context, recs []domain.AnnotatedRecord) []domain.AnnotatedRecord {
	out := make([]domain.AnnotatedRecord, len(recs))
	for i, a := range recs {
		if a.Coordinates != nil {
			a.Region, _ = rc.Classify(ctx, *a.Coordinates)
		}
		out[i] = a
	}
	return out
}

func (rc *RegionClassifier) keep(key, region string) {
	rc.mu.Lock()
	rc.local[key] = region
	rc.mu.Unlock()
}

func (rc *RegionClassifier) persist(ctx context.Context, key, region string) {
	if rc.cache == nil {
		return
	}
	if err := rc.cache.PutRegion(ctx, key, region); err != nil {
		log.Printf("req_id=%s op=region.cache.put cell=%s err=%v", obs.RequestID(ctx), key, err)
	}
}

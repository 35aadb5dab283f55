package services

import (
	"context"
	"errors"
	"log"
	"road-status-service/internal/adapters/cache"
	"road-status-service/internal/domain"
	"road-status-service/internal/platform/obs"
	"road-status-service/internal/ports"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// LocationResolver turns a record into a single coordinate, trying the
// record's own location fields before falling back to geocoding.
//
// Geocoding outcomes (including failures) are memoized per record id in the
// session cache, and concurrent lookups for the same key share one call.
// The resolver is safe for concurrent use.
type LocationResolver struct {
	geocoder    ports.Geocoder
	queries     ports.GeocodeCache
	session     ports.SessionCache
	group       singleflight.Group
	country     string
	concurrency int
}

type ResolverOptions struct {
	// Appended to composed queries; a query equal to it alone is skipped.
	CountryQualifier string
	// Upper bound on concurrent resolutions in ResolveAll.
	Concurrency int
}

// NewLocationResolver wires the resolver. queries may be nil; a nil session
// cache is replaced with an in-process one.
func NewLocationResolver(
	geocoder ports.Geocoder,
	queries ports.GeocodeCache,
	session ports.SessionCache,
	opts ResolverOptions,
) *LocationResolver {
	if geocoder == nil {
		panic("services: NewLocationResolver requires a geocoder")
	}
	if session == nil {
		session = cache.NewMemorySessionCache()
	}
	if opts.CountryQualifier == "" {
		opts.CountryQualifier = "Namibia"
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}

	return &LocationResolver{
		geocoder:    geocoder,
		queries:     queries,
		session:     session,
		country:     opts.CountryQualifier,
		concurrency: opts.Concurrency,
	}
}

// CoordinatesFromFields applies the field-based resolution rules in order:
// explicit coordinates, GeoJSON [lon, lat] location, legacy location object.
// Malformed or partial fields are skipped.
func CoordinatesFromFields(rec *domain.RoadConditionRecord) (domain.Coordinates, domain.LocationSource, bool) {
	if rec == nil {
		return domain.Coordinates{}, domain.SourceNone, false
	}

	if c, ok := rec.Coordinates.Complete(); ok {
		return c, domain.SourceExplicit, true
	}

	if loc := rec.Location; loc != nil {
		if !loc.Malformed && len(loc.Coordinates) == 2 {
			// GeoJSON order is [lon, lat]
			c := domain.Coordinates{Lat: loc.Coordinates[1], Lon: loc.Coordinates[0]}
			if c.Valid() {
				return c, domain.SourceGeoJSON, true
			}
		}
		if c, ok := loc.Legacy.Complete(); ok {
			return c, domain.SourceLegacy, true
		}
	}

	return domain.Coordinates{}, domain.SourceNone, false
}

// SearchQuery returns the geocoding query for rec, or "" when nothing
// better than the bare country name is available.
func (r *LocationResolver) SearchQuery(rec *domain.RoadConditionRecord) string {
	q := normalizeQuery(rec.SearchText)
	if q == "" {
		parts := make([]string, 0, 5)
		for _, p := range []string{rec.Road, rec.Section, rec.Area, rec.Region} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		parts = append(parts, r.country)
		q = normalizeQuery(strings.Join(parts, " "))
	}

	if strings.EqualFold(q, r.country) {
		return ""
	}
	return q
}

// Resolve returns the record's coordinate and the rule that produced it.
// ok is false when the record is unresolvable; that is not an error.
func (r *LocationResolver) Resolve(ctx context.Context, rec *domain.RoadConditionRecord) (domain.Coordinates, domain.LocationSource, bool) {
	if c, src, ok := CoordinatesFromFields(rec); ok {
		obs.ResolutionsTotal.WithLabelValues(string(src)).Inc()
		return c, src, true
	}
	if rec == nil {
		return domain.Coordinates{}, domain.SourceUnresolved, false
	}
	if err := rec.LocationErr(); err != nil {
		log.Printf("req_id=%s op=resolver.fields id=%s err=%v", obs.RequestID(ctx), rec.ID, err)
	}

	query := r.SearchQuery(rec)
	if query == "" {
		obs.ResolutionsTotal.WithLabelValues(string(domain.SourceUnresolved)).Inc()
		return domain.Coordinates{}, domain.SourceUnresolved, false
	}

	key := rec.ID
	if key == "" {
		key = "q:" + query
	}

	c, err := r.geocodeKeyed(ctx, key, query)
	if err != nil {
		obs.ResolutionsTotal.WithLabelValues(string(domain.SourceUnresolved)).Inc()
		return domain.Coordinates{}, domain.SourceUnresolved, false
	}

	obs.ResolutionsTotal.WithLabelValues(string(domain.SourceGeocoded)).Inc()
	return c, domain.SourceGeocoded, true
}

// geocodeKeyed consults the session cache for key, then the persistent query
// cache, then the geocoder. Outcomes are stored under key, except when the
// caller's context ended first.
func (r *LocationResolver) geocodeKeyed(ctx context.Context, key, query string) (domain.Coordinates, error) {
	if entry, ok, err := r.session.Get(ctx, key); err != nil {
		log.Printf("req_id=%s op=resolver.session.get key=%s err=%v", obs.RequestID(ctx), key, err)
	} else if ok {
		if entry.Unresolved {
			return domain.Coordinates{}, domain.ErrUnresolvableLocation
		}
		return entry.Coordinates, nil
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		// a flight that finished between our cache read and Do already stored it
		if entry, ok, _ := r.session.Get(ctx, key); ok {
			if entry.Unresolved {
				return nil, domain.ErrUnresolvableLocation
			}
			return entry.Coordinates, nil
		}

		c, err := r.lookup(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			r.remember(ctx, key, ports.SessionEntry{Unresolved: true})
			return nil, err
		}
		r.remember(ctx, key, ports.SessionEntry{Coordinates: c})
		return c, nil
	})
	if err != nil {
		return domain.Coordinates{}, err
	}
	return v.(domain.Coordinates), nil
}

// lookup geocodes query through the persistent cache.
func (r *LocationResolver) lookup(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "resolver.lookup")(&err)

	if r.queries != nil {
		hits, err := r.queries.GetMany(ctx, []string{query})
		if err != nil {
			log.Printf("req_id=%s op=resolver.cache.get query=%q err=%v", obs.RequestID(ctx), query, err)
		} else if c, ok := hits[query]; ok {
			return c, nil
		}
	}

	c, err := r.geocoder.Search(ctx, query)
	if err != nil {
		if errors.Is(err, domain.ErrNoResult) {
			return domain.Coordinates{}, errors.Join(domain.ErrUnresolvableLocation, err)
		}
		return domain.Coordinates{}, err
	}

	if r.queries != nil {
		if err := r.queries.PutMany(ctx, map[string]domain.Coordinates{query: c}); err != nil {
			log.Printf("req_id=%s op=resolver.cache.put query=%q err=%v", obs.RequestID(ctx), query, err)
		}
	}

	return c, nil
}

func (r *LocationResolver) remember(ctx context.Context, key string, entry ports.SessionEntry) {
	if err := r.session.Put(ctx, key, entry); err != nil {
		log.Printf("req_id=%s op=resolver.session.put key=%s err=%v", obs.RequestID(ctx), key, err)
	}
}

// ResolveAll annotates every record with its resolved coordinate, keeping
// input order. Unresolvable records are kept with a nil coordinate.
func (r *LocationResolver) ResolveAll(ctx context.Context, recs []*domain.RoadConditionRecord) []domain.AnnotatedRecord {
	out := make([]domain.AnnotatedRecord, len(recs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, rec := range recs {
		g.Go(func() error {
			a := domain.AnnotatedRecord{Record: rec, Source: domain.SourceUnresolved}
			if c, src, ok := r.Resolve(gctx, rec); ok {
				a.Coordinates = &c
				a.Source = src
			}
			out[i] = a
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func normalizeQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

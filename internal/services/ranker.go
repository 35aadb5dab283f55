package services

import (
	"cmp"
	"fmt"
	"math"
	"road-status-service/internal/domain"
	"road-status-service/internal/geo"
	"slices"
	"strings"
	"time"
)

const DefaultCriticalDelayMinutes = 30

type SortStrategy string

const (
	SortRelevance SortStrategy = "relevance"
	SortDistance  SortStrategy = "distance"
	SortDate      SortStrategy = "date"
	SortStatus    SortStrategy = "status"
)

func ParseSortStrategy(s string) (SortStrategy, error) {
	switch st := SortStrategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortDistance, SortDate, SortStatus:
		return st, nil
	default:
		return "", fmt.Errorf("unknown sort strategy %q", s)
	}
}

// RankQuery is the user's current view: filters, reference point and order.
// Zero-valued filters match everything.
type RankQuery struct {
	Status               domain.Status
	Region               string
	Search               string
	Reference            *domain.Coordinates
	Sort                 SortStrategy
	CriticalDelayMinutes int
}

// IsCritical reports closures, restrictions and long expected delays.
func IsCritical(rec *domain.RoadConditionRecord, delayThresholdMinutes int) bool {
	if rec == nil {
		return false
	}
	switch rec.Status.Normalize() {
	case domain.StatusClosed, domain.StatusRestricted:
		return true
	}
	return rec.ExpectedDelayMinutes != nil && *rec.ExpectedDelayMinutes > delayThresholdMinutes
}

// Rank filters, annotates and orders recs. The input slice is not modified.
// q.CriticalDelayMinutes is used as given; zero makes any delay critical.
func Rank(recs []domain.AnnotatedRecord, q RankQuery) []domain.AnnotatedRecord {
	out := FilterRecords(recs, q)
	out = AnnotateDistance(out, q.Reference)
	SortRecords(out, q.Sort, q.Reference != nil, q.CriticalDelayMinutes)
	return out
}

// FilterRecords applies the status, region and search filters in that order.
func FilterRecords(recs []domain.AnnotatedRecord, q RankQuery) []domain.AnnotatedRecord {
	status := q.Status.Normalize()
	region := strings.TrimSpace(q.Region)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]domain.AnnotatedRecord, 0, len(recs))
	for _, a := range recs {
		rec := a.Record
		if rec == nil {
			continue
		}
		if status != "" && !strings.EqualFold(string(rec.Status.Normalize()), string(status)) {
			continue
		}
		if region != "" && !matchesRegion(a, region) {
			continue
		}
		if search != "" && !matchesSearch(rec, search) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func matchesRegion(a domain.AnnotatedRecord, region string) bool {
	if strings.EqualFold(a.EffectiveRegion(), region) {
		return true
	}
	return strings.Contains(strings.ToLower(a.Record.Area), strings.ToLower(region))
}

func matchesSearch(rec *domain.RoadConditionRecord, needle string) bool {
	for _, f := range []string{rec.Title, rec.Road, rec.Section, rec.Area, rec.Region} {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// AnnotateDistance returns copies of recs with DistanceKm measured from ref.
// With no ref, or no coordinate, DistanceKm is nil.
func AnnotateDistance(recs []domain.AnnotatedRecord, ref *domain.Coordinates) []domain.AnnotatedRecord {
	out := make([]domain.AnnotatedRecord, len(recs))
	for i, a := range recs {
		a.DistanceKm = nil
		if ref != nil && a.Coordinates != nil {
			d := geo.HaversineDistanceKm(*ref, *a.Coordinates)
			a.DistanceKm = &d
		}
		out[i] = a
	}
	return out
}

// SortRecords orders recs in place. Every strategy is stable.
// The distance strategy is a no-op when hasReference is false.
func SortRecords(recs []domain.AnnotatedRecord, strategy SortStrategy, hasReference bool, criticalDelayMinutes int) {
	switch strategy {
	case SortDistance:
		if !hasReference {
			return
		}
		slices.SortStableFunc(recs, func(a, b domain.AnnotatedRecord) int {
			return cmp.Compare(distanceOrInf(a), distanceOrInf(b))
		})
	case SortDate:
		slices.SortStableFunc(recs, func(a, b domain.AnnotatedRecord) int {
			// newest first; undated records sort last
			return latestDate(b.Record).Compare(latestDate(a.Record))
		})
	case SortStatus:
		slices.SortStableFunc(recs, func(a, b domain.AnnotatedRecord) int {
			return cmp.Compare(statusRank(a.Record.Status), statusRank(b.Record.Status))
		})
	default:
		sortByRelevance(recs, criticalDelayMinutes)
	}
}

// sortByRelevance puts critical records first. Within each tier, records
// that carry a distance are reordered nearest first among the positions
// they already occupy; records without a distance keep their place.
func sortByRelevance(recs []domain.AnnotatedRecord, criticalDelayMinutes int) {
	slices.SortStableFunc(recs, func(a, b domain.AnnotatedRecord) int {
		ca, cb := IsCritical(a.Record, criticalDelayMinutes), IsCritical(b.Record, criticalDelayMinutes)
		switch {
		case ca == cb:
			return 0
		case ca:
			return -1
		default:
			return 1
		}
	})

	tierEnd := 0
	for tierEnd < len(recs) && IsCritical(recs[tierEnd].Record, criticalDelayMinutes) {
		tierEnd++
	}
	sortDistancesInPlace(recs[:tierEnd])
	sortDistancesInPlace(recs[tierEnd:])
}

func sortDistancesInPlace(recs []domain.AnnotatedRecord) {
	idx := make([]int, 0, len(recs))
	vals := make([]domain.AnnotatedRecord, 0, len(recs))
	for i, a := range recs {
		if a.DistanceKm != nil {
			idx = append(idx, i)
			vals = append(vals, a)
		}
	}
	slices.SortStableFunc(vals, func(a, b domain.AnnotatedRecord) int {
		return cmp.Compare(*a.DistanceKm, *b.DistanceKm)
	})
	for j, i := range idx {
		recs[i] = vals[j]
	}
}

func distanceOrInf(a domain.AnnotatedRecord) float64 {
	if a.DistanceKm == nil {
		return math.Inf(1)
	}
	return *a.DistanceKm
}

func latestDate(rec *domain.RoadConditionRecord) time.Time {
	var t time.Time
	if rec == nil {
		return t
	}
	if rec.StartDate != nil {
		t = *rec.StartDate
	}
	if rec.CreatedAt != nil && rec.CreatedAt.After(t) {
		t = *rec.CreatedAt
	}
	return t
}

var statusOrder = map[domain.Status]int{
	domain.StatusClosed:             0,
	domain.StatusRestricted:         1,
	domain.StatusOngoing:            2,
	domain.StatusOngoingMaintenance: 2,
	domain.StatusPlanned:            3,
	domain.StatusPlannedWorks:       3,
	domain.StatusOpen:               4,
}

func statusRank(s domain.Status) int {
	if r, ok := statusOrder[s.Normalize()]; ok {
		return r
	}
	return len(statusOrder)
}

// SplitCritical partitions recs preserving order within each part.
func SplitCritical(recs []domain.AnnotatedRecord, criticalDelayMinutes int) (critical, other []domain.AnnotatedRecord) {
	critical = make([]domain.AnnotatedRecord, 0)
	other = make([]domain.AnnotatedRecord, 0)
	for _, a := range recs {
		if IsCritical(a.Record, criticalDelayMinutes) {
			critical = append(critical, a)
		} else {
			other = append(other, a)
		}
	}
	return critical, other
}

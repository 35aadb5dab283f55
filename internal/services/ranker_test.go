package services

import (
	"road-status-service/internal/domain"
	"testing"
	"time"
)

func ptrInt(n int) *int           { return &n }
func ptrFloat(f float64) *float64 { return &f }

func ids(recs []domain.AnnotatedRecord) []string {
	out := make([]string, len(recs))
	for i, a := range recs {
		out[i] = a.Record.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIsCritical(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.RoadConditionRecord
		want bool
	}{
		{"closed", domain.RoadConditionRecord{Status: domain.StatusClosed}, true},
		{"restricted", domain.RoadConditionRecord{Status: domain.StatusRestricted}, true},
		{"long delay", domain.RoadConditionRecord{Status: domain.StatusOngoing, ExpectedDelayMinutes: ptrInt(31)}, true},
		{"delay at threshold", domain.RoadConditionRecord{Status: domain.StatusOngoing, ExpectedDelayMinutes: ptrInt(30)}, false},
		{"open without delay", domain.RoadConditionRecord{Status: domain.StatusOpen}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsCritical(&tt.rec, DefaultCriticalDelayMinutes); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSortRelevance(t *testing.T) {
	// closed before open when neither has a distance
	recs := []domain.AnnotatedRecord{
		annotated("open", nil, domain.StatusOpen),
		annotated("closed", nil, domain.StatusClosed),
	}
	SortRecords(recs, SortRelevance, false, DefaultCriticalDelayMinutes)
	if got := ids(recs); !equalIDs(got, []string{"closed", "open"}) {
		t.Fatalf("expected closed first, got %v", got)
	}

	// nearer critical record first
	far := annotated("far", nil, domain.StatusClosed)
	far.DistanceKm = ptrFloat(10)
	near := annotated("near", nil, domain.StatusClosed)
	near.DistanceKm = ptrFloat(2)
	recs = []domain.AnnotatedRecord{far, near}
	SortRecords(recs, SortRelevance, true, DefaultCriticalDelayMinutes)
	if got := ids(recs); !equalIDs(got, []string{"near", "far"}) {
		t.Fatalf("expected near first, got %v", got)
	}
}

func TestSortRelevanceKeepsUndistancedInPlace(t *testing.T) {
	a := annotated("a", nil, domain.StatusOpen)
	a.DistanceKm = ptrFloat(9)
	b := annotated("b", nil, domain.StatusOpen)
	c := annotated("c", nil, domain.StatusOpen)
	c.DistanceKm = ptrFloat(1)

	recs := []domain.AnnotatedRecord{a, b, c}
	SortRecords(recs, SortRelevance, true, DefaultCriticalDelayMinutes)
	if got := ids(recs); !equalIDs(got, []string{"c", "b", "a"}) {
		t.Fatalf("expected [c b a], got %v", got)
	}
}

func TestSortIsStable(t *testing.T) {
	// identical keys, told apart only by id
	for _, strategy := range []SortStrategy{SortRelevance, SortDistance, SortDate, SortStatus} {
		t.Run(string(strategy), func(t *testing.T) {
			recs := make([]domain.AnnotatedRecord, 0, 4)
			for _, id := range []string{"first", "second", "third", "fourth"} {
				a := annotated(id, nil, domain.StatusClosed)
				a.DistanceKm = ptrFloat(3)
				recs = append(recs, a)
			}
			SortRecords(recs, strategy, true, DefaultCriticalDelayMinutes)
			if got := ids(recs); !equalIDs(got, []string{"first", "second", "third", "fourth"}) {
				t.Fatalf("expected original order, got %v", got)
			}
		})
	}
}

func TestSortDistanceWithoutReferenceIsNoop(t *testing.T) {
	x := annotated("x", nil, domain.StatusOpen)
	x.DistanceKm = ptrFloat(50)
	y := annotated("y", nil, domain.StatusOpen)
	y.DistanceKm = ptrFloat(5)

	recs := []domain.AnnotatedRecord{x, y}
	SortRecords(recs, SortDistance, false, DefaultCriticalDelayMinutes)
	if got := ids(recs); !equalIDs(got, []string{"x", "y"}) {
		t.Fatalf("expected unchanged order, got %v", got)
	}

	SortRecords(recs, SortDistance, true, DefaultCriticalDelayMinutes)
	if got := ids(recs); !equalIDs(got, []string{"y", "x"}) {
		t.Fatalf("expected ascending distance, got %v", got)
	}
}

func TestSortStatus(t *testing.T) {
	recs := []domain.AnnotatedRecord{
		annotated("done", nil, domain.StatusCompleted),
		annotated("open", nil, domain.StatusOpen),
		annotated("planned", nil, domain.StatusPlannedWorks),
		annotated("ongoing", nil, domain.StatusOngoing),
		annotated("restricted", nil, domain.StatusRestricted),
		annotated("closed", nil, domain.StatusClosed),
	}
	SortRecords(recs, SortStatus, false, DefaultCriticalDelayMinutes)

	want := []string{"closed", "restricted", "ongoing", "planned", "open", "done"}
	if got := ids(recs); !equalIDs(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestFilterRecords(t *testing.T) {
	recs := []domain.AnnotatedRecord{
		{Record: &domain.RoadConditionRecord{ID: "1", Title: "B1 resurfacing", Region: "Khomas", Status: domain.StatusOngoing}},
		{Record: &domain.RoadConditionRecord{ID: "2", Title: "Bridge repair", Area: "Khomas Hochland", Status: domain.StatusClosed}},
		{Record: &domain.RoadConditionRecord{ID: "3", Title: "C28 washaway", Region: "Erongo", Status: domain.StatusClosed}},
		{Record: &domain.RoadConditionRecord{ID: "4", Title: "Gravel grading"}, Region: "Khomas"},
	}

	tests := []struct {
		name string
		q    RankQuery
		want []string
	}{
		{"no filters", RankQuery{}, []string{"1", "2", "3", "4"}},
		{"status", RankQuery{Status: domain.StatusClosed}, []string{"2", "3"}},
		{"region by field, area or derived", RankQuery{Region: "khomas"}, []string{"1", "2", "4"}},
		{"search", RankQuery{Search: "c28"}, []string{"3"}},
		{"combined", RankQuery{Status: domain.StatusClosed, Region: "Khomas"}, []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(FilterRecords(recs, tt.q)); !equalIDs(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRankEndToEnd(t *testing.T) {
	// build test data
	day := func(d int) *time.Time {
		t := time.Date(2026, 1, d, 8, 0, 0, 0, time.UTC)
		return &t
	}

	recs := []domain.AnnotatedRecord{
		{Record: &domain.RoadConditionRecord{ID: "open-3", Status: domain.StatusOpen, CreatedAt: day(3)}},
		{Record: &domain.RoadConditionRecord{ID: "closed-1", Status: domain.StatusClosed, ExpectedDelayMinutes: ptrInt(45), CreatedAt: day(1)}},
		{Record: &domain.RoadConditionRecord{ID: "open-5", Status: domain.StatusOpen, StartDate: day(5), CreatedAt: day(2)}},
		{Record: &domain.RoadConditionRecord{ID: "closed-4", Status: domain.StatusClosed, ExpectedDelayMinutes: ptrInt(45), CreatedAt: day(4)}},
		{Record: &domain.RoadConditionRecord{ID: "open-undated", Status: domain.StatusOpen}},
	}

	// call the method under test
	closed := Rank(recs, RankQuery{Status: domain.StatusClosed})
	if len(closed) != 2 {
		t.Fatalf("expected 2 closed records, got %d", len(closed))
	}

	all := Rank(recs, RankQuery{Sort: SortDate})
	want := []string{"open-5", "closed-4", "open-3", "closed-1", "open-undated"}
	if got := ids(all); !equalIDs(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if ids(recs)[0] != "open-3" {
		t.Fatalf("input must not be reordered")
	}
}

func TestRankAttachesDistanceOnlyWithReference(t *testing.T) {
	recs := []domain.AnnotatedRecord{
		annotated("located", &domain.Coordinates{Lat: -22.0, Lon: 17.0}, domain.StatusOpen),
		annotated("unlocated", nil, domain.StatusOpen),
	}

	out := Rank(recs, RankQuery{Reference: &domain.Coordinates{Lat: -22.0, Lon: 17.0}})
	if out[0].DistanceKm == nil || *out[0].DistanceKm != 0 {
		t.Fatalf("expected zero distance on located record, got %v", out[0].DistanceKm)
	}
	if out[1].DistanceKm != nil {
		t.Fatalf("expected no distance on unlocated record")
	}

	out = Rank(recs, RankQuery{})
	if out[0].DistanceKm != nil {
		t.Fatalf("expected no distance without reference")
	}
}

func TestSplitCritical(t *testing.T) {
	recs := []domain.AnnotatedRecord{
		annotated("o1", nil, domain.StatusOpen),
		annotated("c1", nil, domain.StatusClosed),
		annotated("o2", nil, domain.StatusOpen),
		annotated("r1", nil, domain.StatusRestricted),
	}
	crit, other := SplitCritical(recs, DefaultCriticalDelayMinutes)
	if !equalIDs(ids(crit), []string{"c1", "r1"}) || !equalIDs(ids(other), []string{"o1", "o2"}) {
		t.Fatalf("unexpected split %v / %v", ids(crit), ids(other))
	}
}

func TestRankUsesThresholdAsGiven(t *testing.T) {
	// build test data
	delayed := annotated("delayed", nil, domain.StatusOngoing)
	delayed.Record.ExpectedDelayMinutes = ptrInt(10)
	recs := []domain.AnnotatedRecord{annotated("open", nil, domain.StatusOpen), delayed}

	// call the method under test
	ranked := Rank(recs, RankQuery{CriticalDelayMinutes: 0})
	crit, _ := SplitCritical(ranked, 0)

	if !equalIDs(ids(ranked), []string{"delayed", "open"}) {
		t.Fatalf("expected delayed record ranked critical first, got %v", ids(ranked))
	}
	if !equalIDs(ids(crit), []string{"delayed"}) {
		t.Fatalf("expected split to agree with ranking, got %v", ids(crit))
	}
}

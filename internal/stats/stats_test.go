package stats_test

import (
	"math"
	"testing"
	"time"

	"dropline/internal/domain"
	"dropline/internal/episodes"
	"dropline/internal/stats"
)

func tasks(total, completed int) []domain.Task {
	out := make([]domain.Task, total)
	for i := range out {
		out[i].Status = domain.TaskPending
		if i < completed {
			out[i].Status = domain.TaskCompleted
		}
	}
	return out
}

func TestSummarizeEmpty(t *testing.T) {
	s := stats.Summarize(nil, time.Now())
	if s.ActiveCount != 0 || s.TotalBudget != 0 || s.AverageCompletion != 0 || s.NextDrop != nil {
		t.Fatalf("unexpected summary for empty collection: %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	date := func(days int) string { return now.AddDate(0, 0, days).Format("2006-01-02") }
	eps := []domain.Episode{
		{ID: "past", Name: "Spring", Status: domain.StatusLaunched, Budget: 1000, LaunchDate: date(-1), Tasks: tasks(3, 1)},
		{ID: "soon", Name: "Summer Heat", Status: domain.StatusPlanning, Budget: 2500, LaunchDate: date(5)},
		{ID: "later", Name: "Autumn", Status: domain.StatusMarketing, Budget: 500, LaunchDate: date(20), Tasks: tasks(2, 2)},
		{ID: "done", Name: "Archive", Status: domain.StatusCompleted, LaunchDate: "not a date"},
	}
	s := stats.Summarize(eps, now)
	if s.ActiveCount != 2 {
		t.Fatalf("active = %d", s.ActiveCount)
	}
	if s.TotalBudget != 4000 {
		t.Fatalf("budget = %v", s.TotalBudget)
	}
	want := (100.0/3 + 0 + 100 + 0) / 4
	if math.Abs(s.AverageCompletion-want) > 1e-9 {
		t.Fatalf("average = %v, want %v", s.AverageCompletion, want)
	}
	if s.AverageCompletionPercent() != 33 {
		t.Fatalf("rounded average = %d", s.AverageCompletionPercent())
	}
	if s.NextDrop == nil || s.NextDrop.EpisodeID != "soon" || s.NextDrop.Days != 5 {
		t.Fatalf("next drop = %+v", s.NextDrop)
	}
}

func TestSingleEpisodeAverageIsUnrounded(t *testing.T) {
	s := stats.Summarize([]domain.Episode{{Tasks: tasks(3, 1)}}, time.Now())
	if math.Abs(s.AverageCompletion-33.333333333) > 1e-6 {
		t.Fatalf("average = %v", s.AverageCompletion)
	}
}

func TestCompletion(t *testing.T) {
	cases := []struct {
		total, done, want int
	}{
		{0, 0, 0},
		{3, 1, 33},
		{3, 2, 67},
		{2, 1, 50},
		{8, 5, 63},
		{4, 4, 100},
	}
	for _, tc := range cases {
		if got := stats.Completion(tasks(tc.total, tc.done)); got != tc.want {
			t.Errorf("Completion(%d/%d) = %d, want %d", tc.done, tc.total, got, tc.want)
		}
	}
}

func TestOverviewAndStockAlerts(t *testing.T) {
	eps := episodes.Seed()
	o := stats.Overview(eps)
	if o.TotalEpisodes != 2 || o.Revenue != 38500 || o.StockValue != 20*35 || o.UnitsSold != 180 || o.UnitsInStock != 20 {
		t.Fatalf("overview = %+v", o)
	}

	sold := func(n int) *int { return &n }
	eps = []domain.Episode{{ID: "e", Products: []domain.Product{
		{ID: "cap", Name: "Leaked Cap - Black", Quantity: 15},
		{ID: "hoodie", Name: "Leaked Hoodie - Black M", Quantity: 10, Sold: sold(5)},
		{ID: "tee", Name: "Leaked Tee - White L", Quantity: 4, Sold: sold(2)},
	}}}
	alerts := stats.StockAlerts(eps, stats.DefaultThresholds())
	want := []struct {
		id    string
		level stats.Level
	}{{"tee", stats.LevelCritical}, {"hoodie", stats.LevelLow}, {"cap", stats.LevelGood}}
	if len(alerts) != len(want) {
		t.Fatalf("alerts = %+v", alerts)
	}
	for i, w := range want {
		if alerts[i].ProductID != w.id || alerts[i].Level != w.level {
			t.Fatalf("alert %d = %+v, want %s/%s", i, alerts[i], w.id, w.level)
		}
	}
}

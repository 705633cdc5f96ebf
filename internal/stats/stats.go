// Package stats derives dashboard figures from an episode snapshot.
// Nothing here is cached; every call recomputes from its input.
package stats

import (
	"math"
	"sort"
	"time"

	"dropline/internal/domain"
)

type Summary struct {
	ActiveCount int
	TotalBudget float64
	// AverageCompletion is the unrounded mean of per-episode task completion.
	AverageCompletion float64
	NextDrop          *NextDrop
}

// AverageCompletionPercent is the display form of AverageCompletion.
func (s Summary) AverageCompletionPercent() int {
	return int(math.Round(s.AverageCompletion))
}

type NextDrop struct {
	EpisodeID  string
	Name       string
	LaunchDate string
	Days       int
}

const day = 24 * time.Hour

func Summarize(episodes []domain.Episode, now time.Time) Summary {
	var s Summary
	var sum float64
	for _, e := range episodes {
		if e.Status.Active() {
			s.ActiveCount++
		}
		s.TotalBudget += e.Budget
		sum += completionRatio(e.Tasks) * 100
	}
	if len(episodes) > 0 {
		s.AverageCompletion = sum / float64(len(episodes))
	}
	s.NextDrop = nextDrop(episodes, now)
	return s
}

func nextDrop(episodes []domain.Episode, now time.Time) *NextDrop {
	var best *NextDrop
	var bestAt time.Time
	for _, e := range episodes {
		at, err := domain.ParseDate(e.LaunchDate)
		if err != nil || !at.After(now) {
			continue
		}
		if best == nil || at.Before(bestAt) {
			bestAt = at
			best = &NextDrop{EpisodeID: e.ID, Name: e.Name, LaunchDate: e.LaunchDate}
		}
	}
	if best != nil {
		best.Days = int(math.Ceil(float64(bestAt.Sub(now)) / float64(day)))
	}
	return best
}

func completionRatio(tasks []domain.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	return float64(domain.CompletedTasks(tasks)) / float64(len(tasks))
}

// Completion is the rounded percentage of completed tasks shown on a card.
func Completion(tasks []domain.Task) int {
	return int(math.Round(completionRatio(tasks) * 100))
}

type Totals struct {
	TotalEpisodes int
	Revenue       float64
	StockValue    float64
	UnitsSold     int
	UnitsInStock  int
}

// Overview totals revenue, units and stock held at cost across the collection.
func Overview(episodes []domain.Episode) Totals {
	o := Totals{TotalEpisodes: len(episodes)}
	for _, e := range episodes {
		if e.ActualRevenue != nil {
			o.Revenue += *e.ActualRevenue
		}
		for _, p := range e.Products {
			if p.Sold != nil {
				o.UnitsSold += *p.Sold
			}
			if r := p.Remaining(); r > 0 {
				o.StockValue += float64(r) * p.Cost
				o.UnitsInStock += r
			}
		}
	}
	return o
}

type Level string

const (
	LevelGood     Level = "good"
	LevelLow      Level = "low"
	LevelCritical Level = "critical"
)

type Thresholds struct {
	Low      int
	Critical int
}

func DefaultThresholds() Thresholds { return Thresholds{Low: 10, Critical: 3} }

func (t Thresholds) Level(remaining int) Level {
	switch {
	case remaining <= t.Critical:
		return LevelCritical
	case remaining <= t.Low:
		return LevelLow
	}
	return LevelGood
}

type StockAlert struct {
	EpisodeID string
	ProductID string
	Item      string
	Remaining int
	Level     Level
}

// StockAlerts lists every product with its stock level, lowest stock first.
func StockAlerts(episodes []domain.Episode, t Thresholds) []StockAlert {
	var out []StockAlert
	for _, e := range episodes {
		for _, p := range e.Products {
			r := p.Remaining()
			out = append(out, StockAlert{EpisodeID: e.ID, ProductID: p.ID, Item: p.Name, Remaining: r, Level: t.Level(r)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Remaining < out[j].Remaining })
	return out
}

package selection

import (
	"strings"

	"golang.org/x/text/cases"

	"dropline/internal/domain"
)

// StatusAll disables the status criterion.
const StatusAll = "all"

// Filter narrows the episode list by a search term and a status.
type Filter struct {
	Search string
	Status string
}

// Match reports whether e passes both criteria. The term matches the name
// or the concept, ignoring case.
func (f Filter) Match(e domain.Episode) bool {
	if f.Status != "" && f.Status != StatusAll && string(e.Status) != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	fold := cases.Fold()
	term := fold.String(f.Search)
	return strings.Contains(fold.String(e.Name), term) || strings.Contains(fold.String(e.Concept), term)
}

// Apply returns the matching episodes in their original order.
func (f Filter) Apply(episodes []domain.Episode) []domain.Episode {
	out := make([]domain.Episode, 0, len(episodes))
	for _, e := range episodes {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

type Empty int

const (
	EmptyNone Empty = iota
	// EmptyNoEpisodes means the collection itself is empty.
	EmptyNoEpisodes
	// EmptyNoMatches means episodes exist but the filter hides all of them.
	EmptyNoMatches
)

type View struct {
	Episodes []domain.Episode
	Empty    Empty
}

func (f Filter) ListView(episodes []domain.Episode) View {
	v := View{Episodes: f.Apply(episodes)}
	switch {
	case len(episodes) == 0:
		v.Empty = EmptyNoEpisodes
	case len(v.Episodes) == 0:
		v.Empty = EmptyNoMatches
	}
	return v
}

// Package selection tracks which episode view is open and which subset of
// the collection the list shows.
package selection

import (
	"errors"
	"fmt"

	"dropline/internal/domain"
)

var ErrInvalidTransition = errors.New("invalid transition")

type Mode int

const (
	Listing Mode = iota
	Viewing
	ViewingIdea
)

func (m Mode) String() string {
	switch m {
	case Viewing:
		return "viewing"
	case ViewingIdea:
		return "viewing-idea"
	}
	return "listing"
}

type Tab string

const (
	TabOverview Tab = "overview"
	TabTasks    Tab = "tasks"
	TabProducts Tab = "products"
	TabContent  Tab = "content"
	TabTimeline Tab = "timeline"
	TabIdeas    Tab = "ideas"
	TabTeam     Tab = "team"
)

var Tabs = []Tab{TabOverview, TabTasks, TabProducts, TabContent, TabTimeline, TabIdeas, TabTeam}

func (t Tab) Valid() bool {
	for _, v := range Tabs {
		if v == t {
			return true
		}
	}
	return false
}

// State is the current view. EpisodeID and Tab are set outside Listing;
// IdeaID only in ViewingIdea, where Tab is always TabIdeas.
type State struct {
	Mode      Mode
	EpisodeID string
	Tab       Tab
	IdeaID    string
}

// Navigator owns the view state and the list filter. The filter is kept
// across every transition.
type Navigator struct {
	state  State
	Filter Filter
}

func NewNavigator() *Navigator {
	return &Navigator{Filter: Filter{Status: StatusAll}}
}

func (n *Navigator) State() State { return n.state }

func invalid(op string, s State) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, s.Mode)
}

// Select opens episode id on the overview tab.
func (n *Navigator) Select(id string) error {
	if id == "" {
		return fmt.Errorf("%w: select requires an episode id", ErrInvalidTransition)
	}
	n.state = State{Mode: Viewing, EpisodeID: id, Tab: TabOverview}
	return nil
}

// Back returns to the list and clears the selection.
func (n *Navigator) Back() error {
	if n.state.Mode == Listing {
		return invalid("back", n.state)
	}
	n.state = State{Mode: Listing}
	return nil
}

// SetTab switches tabs on the open episode, leaving any open idea.
func (n *Navigator) SetTab(tab Tab) error {
	if n.state.Mode == Listing {
		return invalid("set tab", n.state)
	}
	if !tab.Valid() {
		return fmt.Errorf("%w: unknown tab %q", ErrInvalidTransition, tab)
	}
	n.state = State{Mode: Viewing, EpisodeID: n.state.EpisodeID, Tab: tab}
	return nil
}

// OpenIdea is only allowed from the ideas tab.
func (n *Navigator) OpenIdea(id string) error {
	if n.state.Mode != Viewing || n.state.Tab != TabIdeas || id == "" {
		return invalid("open idea", n.state)
	}
	n.state.Mode = ViewingIdea
	n.state.IdeaID = id
	return nil
}

func (n *Navigator) CloseIdea() error {
	if n.state.Mode != ViewingIdea {
		return invalid("close idea", n.state)
	}
	n.state.Mode = Viewing
	n.state.IdeaID = ""
	return nil
}

// IdeaDeleted closes the idea view if it shows the deleted idea.
func (n *Navigator) IdeaDeleted(id string) {
	if n.state.Mode == ViewingIdea && n.state.IdeaID == id {
		n.state.Mode = Viewing
		n.state.IdeaID = ""
	}
}

// Reconcile drops a selection whose episode or idea no longer exists in
// episodes. It reports whether the state changed.
func (n *Navigator) Reconcile(episodes []domain.Episode) bool {
	if n.state.Mode == Listing {
		return false
	}
	for _, e := range episodes {
		if e.ID != n.state.EpisodeID {
			continue
		}
		if n.state.Mode == ViewingIdea {
			for _, idea := range e.Ideas {
				if idea.ID == n.state.IdeaID {
					return false
				}
			}
			n.IdeaDeleted(n.state.IdeaID)
			return true
		}
		return false
	}
	n.state = State{Mode: Listing}
	return true
}

package collection

import (
	"context"
	"fmt"

	"dropline/internal/domain"
	"dropline/internal/episodes"
)

// edit builds a patch from the snapshot copy of episode id and sends it
// through Update.
func (s *Store) edit(ctx context.Context, id string, build func(e *domain.Episode) (domain.Patch, error)) (domain.Episode, error) {
	e, ok := s.Episode(id)
	if !ok {
		return domain.Episode{}, s.fail("update episode", fmt.Errorf("%w: %s", episodes.ErrNotFound, id))
	}
	p, err := build(&e)
	if err != nil {
		return domain.Episode{}, s.fail("update episode", err)
	}
	return s.Update(ctx, id, p)
}

func itemNotFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrItemNotFound)
}

func (s *Store) stamp(id, createdAt *string) {
	if *id == "" {
		*id = s.newID()
	}
	if *createdAt == "" {
		*createdAt = domain.Timestamp(s.now())
	}
}

// AddTask appends t to the episode's tasks. New tasks default to pending.
func (s *Store) AddTask(ctx context.Context, episodeID string, t domain.Task) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		s.stamp(&t.ID, &t.CreatedAt)
		if t.Status == "" {
			t.Status = domain.TaskPending
		}
		t.SetStatus(t.Status, s.now())
		tasks := append(e.Tasks, t)
		return domain.Patch{Tasks: &tasks}, nil
	})
}

// SetTaskStatus moves one task to status, stamping or clearing completedAt.
func (s *Store) SetTaskStatus(ctx context.Context, episodeID, taskID string, status domain.TaskStatus) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		for i := range e.Tasks {
			if e.Tasks[i].ID == taskID {
				e.Tasks[i].SetStatus(status, s.now())
				return domain.Patch{Tasks: &e.Tasks}, nil
			}
		}
		return domain.Patch{}, itemNotFound("task", taskID)
	})
}

func (s *Store) RemoveTask(ctx context.Context, episodeID, taskID string) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		tasks, ok := without(e.Tasks, taskID, func(t domain.Task) string { return t.ID })
		if !ok {
			return domain.Patch{}, itemNotFound("task", taskID)
		}
		return domain.Patch{Tasks: &tasks}, nil
	})
}

func (s *Store) AddTeamMember(ctx context.Context, episodeID string, m domain.TeamMember) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		if m.ID == "" {
			m.ID = s.newID()
		}
		members := append(e.TeamMembers, m)
		return domain.Patch{TeamMembers: &members}, nil
	})
}

func (s *Store) RemoveTeamMember(ctx context.Context, episodeID, memberID string) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		members, ok := without(e.TeamMembers, memberID, func(m domain.TeamMember) string { return m.ID })
		if !ok {
			return domain.Patch{}, itemNotFound("team member", memberID)
		}
		return domain.Patch{TeamMembers: &members}, nil
	})
}

func (s *Store) AddProduct(ctx context.Context, episodeID string, p domain.Product) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		if p.ID == "" {
			p.ID = s.newID()
		}
		products := append(e.Products, p)
		return domain.Patch{Products: &products}, nil
	})
}

func (s *Store) RemoveProduct(ctx context.Context, episodeID, productID string) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		products, ok := without(e.Products, productID, func(p domain.Product) string { return p.ID })
		if !ok {
			return domain.Patch{}, itemNotFound("product", productID)
		}
		return domain.Patch{Products: &products}, nil
	})
}

// AddContentItem appends c to the content plan; status defaults to planned.
func (s *Store) AddContentItem(ctx context.Context, episodeID string, c domain.ContentItem) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		s.stamp(&c.ID, &c.CreatedAt)
		if c.Status == "" {
			c.Status = domain.ContentPlanned
		}
		plan := append(e.ContentPlan, c)
		return domain.Patch{ContentPlan: &plan}, nil
	})
}

// AddTimelineItem appends t to the stored timeline; status defaults to upcoming.
func (s *Store) AddTimelineItem(ctx context.Context, episodeID string, t domain.TimelineItem) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		s.stamp(&t.ID, &t.CreatedAt)
		if t.Status == "" {
			t.Status = domain.TimelineUpcoming
		}
		timeline := append(e.Timeline, t)
		return domain.Patch{Timeline: &timeline}, nil
	})
}

// AddIdea appends idea; priority defaults to medium and attachments get ids.
func (s *Store) AddIdea(ctx context.Context, episodeID string, idea domain.Idea) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		s.stamp(&idea.ID, &idea.CreatedAt)
		if idea.Priority == "" {
			idea.Priority = domain.PriorityMedium
		}
		s.stampFiles(idea.Files)
		ideas := append(e.Ideas, idea)
		return domain.Patch{Ideas: &ideas}, nil
	})
}

// UpdateIdea replaces the stored idea with the same id, keeping its createdAt.
// An empty priority keeps the stored one; new attachments get ids.
func (s *Store) UpdateIdea(ctx context.Context, episodeID string, idea domain.Idea) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		for i := range e.Ideas {
			if e.Ideas[i].ID == idea.ID {
				idea.CreatedAt = e.Ideas[i].CreatedAt
				if idea.Priority == "" {
					idea.Priority = e.Ideas[i].Priority
				}
				s.stampFiles(idea.Files)
				e.Ideas[i] = idea
				return domain.Patch{Ideas: &e.Ideas}, nil
			}
		}
		return domain.Patch{}, itemNotFound("idea", idea.ID)
	})
}

func (s *Store) DeleteIdea(ctx context.Context, episodeID, ideaID string) (domain.Episode, error) {
	return s.edit(ctx, episodeID, func(e *domain.Episode) (domain.Patch, error) {
		ideas, ok := without(e.Ideas, ideaID, func(i domain.Idea) string { return i.ID })
		if !ok {
			return domain.Patch{}, itemNotFound("idea", ideaID)
		}
		return domain.Patch{Ideas: &ideas}, nil
	})
}

func (s *Store) stampFiles(files []domain.IdeaFile) {
	for i := range files {
		if files[i].ID == "" {
			files[i].ID = s.newID()
		}
	}
}

func without[T any](items []T, id string, key func(T) string) ([]T, bool) {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if key(it) != id {
			out = append(out, it)
		}
	}
	return out, len(out) != len(items)
}

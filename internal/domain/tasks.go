package domain

import (
	"sort"
	"time"
)

// SetStatus moves the task to status. CompletedAt is stamped when the task
// becomes completed and cleared when it leaves that state.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	t.Status = status
	t.reconcile(now)
}

func (t *Task) reconcile(now time.Time) {
	switch {
	case t.Status == TaskCompleted && t.CompletedAt == "":
		t.CompletedAt = Timestamp(now)
	case t.Status != TaskCompleted:
		t.CompletedAt = ""
	}
}

// ReconcileTasks enforces completedAt present iff status is completed on every task.
func ReconcileTasks(tasks []Task, now time.Time) {
	for i := range tasks {
		tasks[i].reconcile(now)
	}
}

// CompletedTasks counts tasks in the completed state.
func CompletedTasks(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Status == TaskCompleted {
			n++
		}
	}
	return n
}

// SortedTasks returns a copy of tasks grouped by category in TaskCategories
// order. Tasks with an unknown category come last; stored order is kept within a group.
func SortedTasks(tasks []Task) []Task {
	out := append([]Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return categoryRank(out[i].Category) < categoryRank(out[j].Category)
	})
	return out
}

func categoryRank(c TaskCategory) int {
	for i, v := range TaskCategories {
		if v == c {
			return i
		}
	}
	return len(TaskCategories)
}

// SortedTimeline returns a copy of items ordered completed, current, upcoming.
// Items with equal status keep their stored order.
func SortedTimeline(items []TimelineItem) []TimelineItem {
	out := append([]TimelineItem(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return timelineRank(out[i].Status) < timelineRank(out[j].Status)
	})
	return out
}

func timelineRank(s TimelineStatus) int {
	for i, v := range TimelineStatuses {
		if v == s {
			return i
		}
	}
	return len(TimelineStatuses)
}

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid marks records rejected by Validate.
var ErrInvalid = errors.New("invalid episode")

// TimestampLayout matches the millisecond ISO-8601 form used by the stored document.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

const dateLayout = "2006-01-02"

// Timestamp formats t in UTC with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseDate accepts calendar dates and RFC3339 timestamps. Calendar dates are UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the field-level invariants of an episode and its children.
func (e Episode) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return invalid("name is required")
	}
	if !e.Status.Valid() {
		return invalid("unknown status %q", e.Status)
	}
	if e.Budget < 0 {
		return invalid("budget must not be negative")
	}
	if e.TargetRevenue < 0 {
		return invalid("target revenue must not be negative")
	}
	if e.ActualRevenue != nil && *e.ActualRevenue < 0 {
		return invalid("actual revenue must not be negative")
	}
	for _, d := range []struct{ name, value string }{{"start date", e.StartDate}, {"launch date", e.LaunchDate}} {
		if d.value == "" {
			continue
		}
		if _, err := ParseDate(d.value); err != nil {
			return invalid("%s: %v", d.name, err)
		}
	}
	for _, t := range e.Tasks {
		if strings.TrimSpace(t.Title) == "" {
			return invalid("task %s: title is required", t.ID)
		}
		if !t.Category.Valid() {
			return invalid("task %s: unknown category %q", t.ID, t.Category)
		}
		if !t.Status.Valid() {
			return invalid("task %s: unknown status %q", t.ID, t.Status)
		}
	}
	for _, p := range e.Products {
		if p.Quantity < 0 {
			return invalid("product %s: quantity must not be negative", p.ID)
		}
		if p.Cost < 0 || p.Price < 0 {
			return invalid("product %s: cost and price must not be negative", p.ID)
		}
		if p.Sold != nil && *p.Sold < 0 {
			return invalid("product %s: sold must not be negative", p.ID)
		}
	}
	for _, c := range e.ContentPlan {
		if !c.Type.Valid() || !c.Platform.Valid() || !c.Status.Valid() {
			return invalid("content item %s: unknown type, platform or status", c.ID)
		}
	}
	for _, t := range e.Timeline {
		if !t.Status.Valid() || !t.Category.Valid() {
			return invalid("timeline item %s: unknown status or category", t.ID)
		}
	}
	for _, i := range e.Ideas {
		if !i.Priority.Valid() {
			return invalid("idea %s: unknown priority %q", i.ID, i.Priority)
		}
	}
	return nil
}

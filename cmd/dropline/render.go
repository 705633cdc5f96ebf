package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"dropline/internal/domain"
	"dropline/internal/format"
	"dropline/internal/selection"
	"dropline/internal/stats"
)

func renderEpisode(w io.Writer, e domain.Episode, state selection.State, th stats.Thresholds) error {
	fmt.Fprintf(w, "%s  [%s]\n", text.Bold.Sprint(e.Name), colored(string(e.Status)))
	if state.Mode == selection.ViewingIdea {
		for _, idea := range e.Ideas {
			if idea.ID == state.IdeaID {
				renderIdea(w, idea)
				return nil
			}
		}
		return fmt.Errorf("idea %s not found", state.IdeaID)
	}
	fmt.Fprintf(w, "tabs: %s\n\n", tabBar(state.Tab))
	switch state.Tab {
	case selection.TabOverview:
		renderOverview(w, e)
	case selection.TabTasks:
		renderTasks(w, e.Tasks)
	case selection.TabProducts:
		renderProducts(w, e.Products, th)
	case selection.TabContent:
		renderContent(w, e.ContentPlan)
	case selection.TabTimeline:
		renderTimeline(w, e.Timeline)
	case selection.TabIdeas:
		renderIdeas(w, e.Ideas)
	case selection.TabTeam:
		renderTeam(w, e.TeamMembers)
	}
	return nil
}

func tabBar(active selection.Tab) string {
	parts := make([]string, len(selection.Tabs))
	for i, t := range selection.Tabs {
		parts[i] = string(t)
		if t == active {
			parts[i] = "[" + parts[i] + "]"
		}
	}
	return strings.Join(parts, " ")
}

func renderOverview(w io.Writer, e domain.Episode) {
	if e.Concept != "" {
		fmt.Fprintln(w, e.Concept)
		fmt.Fprintln(w)
	}
	actual := "-"
	if e.ActualRevenue != nil {
		actual = format.Currency(*e.ActualRevenue)
	}
	views := e.Views
	if views == "" {
		views = "-"
	}
	tw := newTable(w, table.Row{"Field", "Value"})
	tw.AppendRows([]table.Row{
		{"Start", format.Date(e.StartDate)},
		{"Launch", format.Date(e.LaunchDate)},
		{"Budget", format.Currency(e.Budget)},
		{"Target revenue", format.Currency(e.TargetRevenue)},
		{"Actual revenue", actual},
		{"Views", views},
		{"Progress", fmt.Sprintf("%d/%d tasks (%d%%)", domain.CompletedTasks(e.Tasks), len(e.Tasks), stats.Completion(e.Tasks))},
		{"Team", len(e.TeamMembers)},
		{"Products", len(e.Products)},
		{"Content items", len(e.ContentPlan)},
		{"Ideas", len(e.Ideas)},
		{"Updated", format.Relative(e.UpdatedAt, time.Now())},
	})
	tw.Render()
}

// renderTasks groups tasks by category in category order.
func renderTasks(w io.Writer, tasks []domain.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet.")
		return
	}
	tw := newTable(w, table.Row{"Category", "ID", "Title", "Status", "Due", "Assignee", "Completed"})
	for _, t := range domain.SortedTasks(tasks) {
		completed := ""
		if t.CompletedAt != "" {
			completed = format.Date(t.CompletedAt)
		}
		tw.AppendRow(table.Row{t.Category, t.ID, t.Title, colored(string(t.Status)), format.Date(t.DueDate), t.AssignedTo, completed})
	}
	tw.Render()
}

func renderProducts(w io.Writer, products []domain.Product, th stats.Thresholds) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products yet.")
		return
	}
	tw := newTable(w, table.Row{"ID", "Name", "Variants", "Qty", "Sold", "Left", "Cost", "Price", "Stock"})
	for _, p := range products {
		sold := 0
		if p.Sold != nil {
			sold = *p.Sold
		}
		left := p.Remaining()
		tw.AppendRow(table.Row{
			p.ID, p.Name, strings.Join(p.Variants, "/"), p.Quantity, sold, left,
			format.Currency(p.Cost), format.Currency(p.Price), colored(string(th.Level(left))),
		})
	}
	tw.Render()
}

func renderContent(w io.Writer, items []domain.ContentItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No content planned yet.")
		return
	}
	tw := newTable(w, table.Row{"ID", "Type", "Title", "Platform", "Status", "Due"})
	for _, c := range items {
		tw.AppendRow(table.Row{c.ID, c.Type, c.Title, c.Platform, colored(string(c.Status)), format.Date(c.DueDate)})
	}
	tw.Render()
}

func renderTimeline(w io.Writer, items []domain.TimelineItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No timeline items yet.")
		return
	}
	tw := newTable(w, table.Row{"Date", "Title", "Category", "Status"})
	for _, t := range domain.SortedTimeline(items) {
		tw.AppendRow(table.Row{format.Date(t.Date), t.Title, t.Category, colored(string(t.Status))})
	}
	tw.Render()
}

func renderIdeas(w io.Writer, ideas []domain.Idea) {
	if len(ideas) == 0 {
		fmt.Fprintln(w, "No ideas yet.")
		return
	}
	tw := newTable(w, table.Row{"ID", "Title", "Category", "Priority", "Files", "Created"})
	for _, i := range ideas {
		tw.AppendRow(table.Row{i.ID, i.Title, i.Category, colored(string(i.Priority)), len(i.Files), format.Date(i.CreatedAt)})
	}
	tw.Render()
}

func renderIdea(w io.Writer, idea domain.Idea) {
	fmt.Fprintf(w, "\n%s\n", text.Bold.Sprint(idea.Title))
	fmt.Fprintf(w, "%s | %s priority\n\n", idea.Category, strings.ToUpper(string(idea.Priority)))
	if idea.Description != "" {
		fmt.Fprintln(w, idea.Description)
		fmt.Fprintln(w)
	}
	if len(idea.Files) == 0 {
		return
	}
	tw := newTable(w, table.Row{"File", "Type", "URL"})
	for _, f := range idea.Files {
		tw.AppendRow(table.Row{f.Name, f.Type, f.URL})
	}
	tw.Render()
}

func renderTeam(w io.Writer, members []domain.TeamMember) {
	if len(members) == 0 {
		fmt.Fprintln(w, "No team members yet.")
		return
	}
	tw := newTable(w, table.Row{"ID", "Name", "Role", "Email"})
	for _, m := range members {
		tw.AppendRow(table.Row{m.ID, m.Name, m.Role, m.Email})
	}
	tw.Render()
}

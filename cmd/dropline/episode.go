package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"dropline/internal/app"
	"dropline/internal/domain"
	"dropline/internal/format"
	"dropline/internal/selection"
	"dropline/internal/stats"
)

func episodeCmd() *cobra.Command {
	ep := &cobra.Command{Use: "episode", Aliases: []string{"ep"}, Short: "Manage episodes"}
	ep.AddCommand(episodeListCmd())
	ep.AddCommand(episodeShowCmd())
	ep.AddCommand(episodeCreateCmd())
	ep.AddCommand(episodeUpdateCmd())
	ep.AddCommand(episodeDeleteCmd())
	return ep
}

func episodeListCmd() *cobra.Command {
	var f selection.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List episodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.Status != selection.StatusAll && !domain.EpisodeStatus(f.Status).Valid() {
				return fmt.Errorf("unknown status %q", f.Status)
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				view := f.ListView(a.Store.Episodes())
				if jsonOutput() {
					return printJSON(view.Episodes)
				}
				switch view.Empty {
				case selection.EmptyNoEpisodes:
					fmt.Println("No episodes yet. Create one with 'dropline episode create'.")
					return nil
				case selection.EmptyNoMatches:
					fmt.Println("No episodes match the current filters.")
					return nil
				}
				now := time.Now()
				tw := newTable(os.Stdout, table.Row{"ID", "Name", "Status", "Launch", "Budget", "Progress", "Updated"})
				for _, e := range view.Episodes {
					tw.AppendRow(table.Row{
						e.ID, e.Name, colored(string(e.Status)), format.Date(e.LaunchDate),
						format.Currency(e.Budget), fmt.Sprintf("%d%%", stats.Completion(e.Tasks)),
						format.Relative(e.UpdatedAt, now),
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.Search, "search", "", "match name or concept")
	cmd.Flags().StringVar(&f.Status, "status", selection.StatusAll, "status filter or 'all'")
	return cmd
}

func episodeShowCmd() *cobra.Command {
	var tab, ideaID string
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one episode tab",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				nav := selection.NewNavigator()
				if err := nav.Select(args[0]); err != nil {
					return err
				}
				if ideaID != "" {
					tab = string(selection.TabIdeas)
				}
				if err := nav.SetTab(selection.Tab(tab)); err != nil {
					return err
				}
				if ideaID != "" {
					if err := nav.OpenIdea(ideaID); err != nil {
						return err
					}
				}
				episodes := a.Store.Episodes()
				nav.Reconcile(episodes)
				state := nav.State()
				switch {
				case state.Mode == selection.Listing:
					return fmt.Errorf("episode %s not found", args[0])
				case ideaID != "" && state.Mode != selection.ViewingIdea:
					return fmt.Errorf("idea %s not found", ideaID)
				}
				e, _ := a.Store.Episode(state.EpisodeID)
				if jsonOutput() {
					return printJSON(e)
				}
				return renderEpisode(os.Stdout, e, state, a.Thresholds)
			})
		},
	}
	cmd.Flags().StringVar(&tab, "tab", string(selection.TabOverview), "overview, tasks, products, content, timeline, ideas or team")
	cmd.Flags().StringVar(&ideaID, "idea", "", "open one idea")
	return cmd
}

func episodeCreateCmd() *cobra.Command {
	var d domain.Draft
	var status, fromFile string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an episode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromFile != "" {
				if err := readJSON(fromFile, &d); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("status") || d.Status == "" {
				d.Status = domain.EpisodeStatus(status)
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				e, err := a.Store.Create(ctx, d)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(e)
				}
				fmt.Printf("created %s (%s)\n", e.Name, e.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&d.Name, "name", "", "episode name")
	cmd.Flags().StringVar(&d.Concept, "concept", "", "concept")
	cmd.Flags().StringVar(&status, "status", string(domain.StatusPlanning), "initial status")
	cmd.Flags().StringVar(&d.StartDate, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&d.LaunchDate, "launch", "", "launch date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&d.Budget, "budget", 0, "budget in USD")
	cmd.Flags().Float64Var(&d.TargetRevenue, "target-revenue", 0, "target revenue in USD")
	cmd.Flags().StringVar(&d.Views, "views", "", "view count label, e.g. 125K")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the draft as JSON from a file ('-' for stdin)")
	return cmd
}

func episodeUpdateCmd() *cobra.Command {
	var name, concept, status, start, launch, views, fromFile string
	var budget, target, actual float64
	var clearActual bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p domain.Patch
			if fromFile != "" {
				if err := readJSON(fromFile, &p); err != nil {
					return err
				}
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				p.Name = &name
			}
			if flags.Changed("concept") {
				p.Concept = &concept
			}
			if flags.Changed("status") {
				s := domain.EpisodeStatus(status)
				p.Status = &s
			}
			if flags.Changed("start") {
				p.StartDate = &start
			}
			if flags.Changed("launch") {
				p.LaunchDate = &launch
			}
			if flags.Changed("budget") {
				p.Budget = &budget
			}
			if flags.Changed("target-revenue") {
				p.TargetRevenue = &target
			}
			if flags.Changed("actual-revenue") {
				p.ActualRevenue = &actual
			}
			if clearActual {
				p.ClearActualRevenue = true
			}
			if flags.Changed("views") {
				p.Views = &views
			}
			if p.Empty() {
				return fmt.Errorf("nothing to update")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				var updated domain.Episode
				err := confirm(ctx, a, "Update Episode", "Enter password to save changes to "+args[0], func(ctx context.Context) error {
					var err error
					updated, err = a.Store.Update(ctx, args[0], p)
					return err
				})
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(updated)
				}
				fmt.Printf("updated %s: %s\n", updated.ID, strings.Join(p.Fields(), ", "))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "episode name")
	cmd.Flags().StringVar(&concept, "concept", "", "concept")
	cmd.Flags().StringVar(&status, "status", "", "status")
	cmd.Flags().StringVar(&start, "start", "", "start date")
	cmd.Flags().StringVar(&launch, "launch", "", "launch date")
	cmd.Flags().Float64Var(&budget, "budget", 0, "budget in USD")
	cmd.Flags().Float64Var(&target, "target-revenue", 0, "target revenue in USD")
	cmd.Flags().Float64Var(&actual, "actual-revenue", 0, "actual revenue in USD")
	cmd.Flags().BoolVar(&clearActual, "clear-actual-revenue", false, "remove the recorded actual revenue")
	cmd.MarkFlagsMutuallyExclusive("actual-revenue", "clear-actual-revenue")
	cmd.Flags().StringVar(&views, "views", "", "view count label")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read a JSON patch from a file ('-' for stdin)")
	return cmd
}

func episodeDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				err := confirm(ctx, a, "Delete Episode", "Enter password to delete "+args[0], func(ctx context.Context) error {
					return a.Store.Delete(ctx, args[0])
				})
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(map[string]any{"deleted": args[0]})
				}
				fmt.Printf("deleted %s\n", args[0])
				return nil
			})
		},
	}
	return cmd
}

func readJSON(path string, v any) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

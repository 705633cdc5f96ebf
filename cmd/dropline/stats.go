package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"dropline/internal/app"
	"dropline/internal/config"
	"dropline/internal/format"
	"dropline/internal/stats"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard figures",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				episodes := a.Store.Episodes()
				summary := stats.Summarize(episodes, time.Now())
				totals := stats.Overview(episodes)
				alerts := stats.StockAlerts(episodes, a.Thresholds)
				if jsonOutput() {
					return printJSON(map[string]any{"summary": summary, "overview": totals, "stock": alerts})
				}
				next := "-"
				if summary.NextDrop != nil {
					next = fmt.Sprintf("%s in %d days", summary.NextDrop.Name, summary.NextDrop.Days)
				}
				tw := newTable(os.Stdout, table.Row{"Metric", "Value"})
				tw.AppendRows([]table.Row{
					{"Episodes", totals.TotalEpisodes},
					{"Active episodes", summary.ActiveCount},
					{"Total budget", format.Currency(summary.TotalBudget)},
					{"Average progress", fmt.Sprintf("%d%%", summary.AverageCompletionPercent())},
					{"Next drop", next},
					{"Revenue", format.Currency(totals.Revenue)},
					{"Stock value", format.Currency(totals.StockValue)},
					{"Units sold", format.Compact(float64(totals.UnitsSold))},
					{"Units in stock", format.Compact(float64(totals.UnitsInStock))},
				})
				tw.Render()
				if len(alerts) == 0 {
					return nil
				}
				fmt.Println()
				at := newTable(os.Stdout, table.Row{"Item", "Episode", "Left", "Level"})
				for _, al := range alerts {
					at.AppendRow(table.Row{al.Item, al.EpisodeID, al.Remaining, colored(string(al.Level))})
				}
				at.Render()
				return nil
			})
		},
	}
	return cmd
}

func logCmd() *cobra.Command {
	l := &cobra.Command{Use: "log", Short: "Inspect the activity log"}
	l.AddCommand(logTailCmd())
	return l
}

func logTailCmd() *cobra.Command {
	var n int
	var evtType, episodeID string
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Tail activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				events, err := a.ActivityLog(ctx, n, evtType, episodeID)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(events)
				}
				tw := newTable(os.Stdout, table.Row{"#", "When", "Type", "Episode", "Payload"})
				for _, e := range events {
					tw.AppendRow(table.Row{e.ID, e.TS, e.Type, e.EntityID, e.Payload})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of events")
	cmd.Flags().StringVar(&evtType, "type", "", "event type filter, e.g. episode.update")
	cmd.Flags().StringVar(&episodeID, "episode", "", "episode id filter")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the workspace config",
		Long:  "Config sets the storage backend, simulated latencies, gate passphrase, stock thresholds and logging. It lives in dropline.yml (or dropline.toml) in the workspace.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configInitCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if jsonOutput() {
					return printJSON(a.Config)
				}
				out, err := yaml.Marshal(a.Config)
				if err != nil {
					return err
				}
				fmt.Print(string(out))
				return nil
			})
		},
	}
	return cmd
}

func configInitCmd() *cobra.Command {
	var asTOML, force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config into the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace := viper.GetString("workspace")
			path := config.Path(workspace)
			data := []byte(config.GenerateDefault())
			if asTOML {
				path = filepath.Join(workspace, "dropline.toml")
				var err error
				if data, err = toml.Marshal(config.Default()); err != nil {
					return err
				}
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists; pass --force to overwrite", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asTOML, "toml", false, "write dropline.toml instead of dropline.yml")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

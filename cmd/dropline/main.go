package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"dropline/internal/app"
	"dropline/internal/db"
	"dropline/internal/gate"
)

var rootCmd = &cobra.Command{
	Use:   "dropline",
	Short: "LEAKED episode planning",
	Long: `Dropline plans LEAKED episodes: product drops with their team, products,
tasks, content plan, timeline and ideas.
- Episode: one drop, moving planning -> in-progress -> production -> marketing -> launched -> completed.
- Workspace: the .dropline directory holding the episode database (or document file).
- Gate: a shared passphrase asked before anything is shown and again before edits.
- Activity log: one record per change, view with 'dropline log tail'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("DROPLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().String("config", "", "config file (default <workspace>/dropline.yml)")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("passphrase", "", "gate passphrase (prompted when omitted)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: sqlite, file or memory")
	for _, name := range []string{"workspace", "config", "json", "passphrase", "backend"} {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

func registerCommands() {
	rootCmd.AddCommand(episodeCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(teamCmd())
	rootCmd.AddCommand(productCmd())
	rootCmd.AddCommand(contentCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(ideaCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(configCmd())
}

// withApp opens the workspace, passes the entry gate and loads the
// collection before running fn.
func withApp(ctx context.Context, fn func(context.Context, *app.App) error) error {
	a, err := app.Open(ctx, app.Options{
		Workspace:  viper.GetString("workspace"),
		ConfigPath: viper.GetString("config"),
		Backend:    viper.GetString("backend"),
	})
	if err != nil {
		return err
	}
	defer a.Close()
	if err := unlock(ctx, a.Gate); err != nil {
		return err
	}
	if err := a.Store.Activate(ctx); err != nil {
		return err
	}
	return fn(ctx, a)
}

func unlock(ctx context.Context, g gate.Gate) error {
	p := prompter()
	for attempt := 0; ; attempt++ {
		input, err := p.Passphrase(ctx, "LEAKED", "Enter password to access the dashboard", attempt > 0)
		if err != nil {
			return err
		}
		err = g.Check(ctx, input)
		if !errors.Is(err, gate.ErrInvalidPassphrase) || !canRetry(p) || attempt >= 2 {
			return err
		}
	}
}

// confirm runs action after the passphrase is entered again.
func confirm(ctx context.Context, a *app.App, title, description string, action func(context.Context) error) error {
	return a.Gate.Confirm(ctx, prompter(), title, description, action)
}

func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func canRetry(p gate.Prompter) bool {
	_, ok := p.(terminalPrompter)
	return ok && interactive()
}

// stdinLines is shared so consecutive prompts read consecutive lines of piped input.
var stdinLines = bufio.NewReader(os.Stdin)

func prompter() gate.Prompter {
	if v := viper.GetString("passphrase"); v != "" {
		return gate.Static(v)
	}
	return terminalPrompter{in: os.Stdin, lines: stdinLines, out: os.Stderr}
}

type terminalPrompter struct {
	in    *os.File
	lines *bufio.Reader
	out   io.Writer
}

func (t terminalPrompter) Passphrase(ctx context.Context, title, description string, retry bool) (string, error) {
	if retry {
		fmt.Fprintln(t.out, text.FgRed.Sprint("Invalid password"))
	} else {
		fmt.Fprintln(t.out, text.Bold.Sprint(title))
		fmt.Fprintln(t.out, description)
	}
	fmt.Fprint(t.out, "Password: ")
	if !interactive() {
		line, err := t.lines.ReadString('\n')
		fmt.Fprintln(t.out)
		if err != nil && line == "" {
			return "", gate.ErrCancelled
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	b, err := term.ReadPassword(int(t.in.Fd()))
	fmt.Fprintln(t.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func jsonOutput() bool {
	return viper.GetBool("json")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	if !colorOutput() {
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
	}
	tw.AppendHeader(header)
	return tw
}

func colorOutput() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// colored wraps s in the color for the status word s when writing to a terminal.
func colored(s string) string {
	if !colorOutput() {
		return s
	}
	var c text.Colors
	switch s {
	case "planning", "upcoming", "planned":
		c = text.Colors{text.FgBlue}
	case "in-progress", "current", "low", "medium":
		c = text.Colors{text.FgYellow}
	case "production":
		c = text.Colors{text.FgMagenta}
	case "marketing":
		c = text.Colors{text.FgHiYellow}
	case "launched", "good":
		c = text.Colors{text.FgGreen}
	case "cancelled", "critical", "high":
		c = text.Colors{text.FgRed}
	default:
		c = text.Colors{text.FgHiBlack}
	}
	return c.Sprint(s)
}

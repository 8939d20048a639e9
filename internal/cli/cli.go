// Package cli defines the jokes command tree.
//
//	jokes                      open the TUI
//	├── list [--json]          load and print the collection
//	├── add --setup --punchline
//	├── update ID --setup --punchline
//	├── delete ID
//	├── logs [-n N] [--grep S] tail the client log
//	└── serve [--addr] [--seed] run the local development server
//
// One-shot commands dispatch a single intent through the same syncer the TUI
// uses and print the terminal status. A Failed status exits non-zero with
// the failure message.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/comteq/jokes/internal/app"
	"github.com/comteq/jokes/internal/config"
	"github.com/comteq/jokes/internal/jokesapi"
	"github.com/comteq/jokes/internal/logtail"
	"github.com/comteq/jokes/internal/mockserver"
	"github.com/comteq/jokes/internal/state"
)

// FailedError reports an intent that ended in a Failed status.
type FailedError struct {
	Message string
}

func (e *FailedError) Error() string {
	return e.Message
}

type rootFlags struct {
	configPath string
	prefsPath  string
	refresh    int
	verbose    bool
}

func (f *rootFlags) options() app.Options {
	return app.Options{
		ConfigPath:   f.configPath,
		PrefsPath:    f.prefsPath,
		RefreshEvery: f.refresh,
		Verbose:      f.verbose,
	}
}

// BuildCLI returns the root command.
func BuildCLI() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "jokes",
		Short: "Browse and edit a remote jokes collection",
		Long: "jokes mirrors a remote jokes collection. Without a subcommand it opens\n" +
			"the terminal UI; subcommands run a single intent and print the result.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&flags.prefsPath, "prefs", "", "preferences file (default ~/.config/jokes/prefs.toml)")
	pf.IntVar(&flags.refresh, "refresh", 0, "auto-refresh interval in seconds (overrides config)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr instead of the log file")

	root.AddCommand(
		buildListCommand(flags),
		buildAddCommand(flags),
		buildUpdateCommand(flags),
		buildDeleteCommand(flags),
		buildLogsCommand(flags),
		buildServeCommand(),
	)
	return root
}

func buildListCommand(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Load and print the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIntent(cmd, flags, asJSON, func(ctx context.Context, s *app.Session) (state.Status, error) {
				return s.Syncer.Load(ctx)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the collection as JSON")
	return cmd
}

func buildAddCommand(flags *rootFlags) *cobra.Command {
	var setup, punchline string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a joke and print the reloaded collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := jokesapi.NewJoke(setup, punchline).Validate(); err != nil {
				return err
			}
			return runIntent(cmd, flags, asJSON, func(ctx context.Context, s *app.Session) (state.Status, error) {
				return s.Syncer.Add(ctx, setup, punchline)
			})
		},
	}
	addJokeFlags(cmd, &setup, &punchline)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the collection as JSON")
	return cmd
}

func buildUpdateCommand(flags *rootFlags) *cobra.Command {
	var setup, punchline string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a joke and print the reloaded collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := jokesapi.NewJoke(setup, punchline).Validate(); err != nil {
				return err
			}
			return runIntent(cmd, flags, asJSON, func(ctx context.Context, s *app.Session) (state.Status, error) {
				return s.Syncer.Update(ctx, id, setup, punchline)
			})
		},
	}
	addJokeFlags(cmd, &setup, &punchline)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the collection as JSON")
	return cmd
}

func buildDeleteCommand(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a joke and print the reloaded collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runIntent(cmd, flags, asJSON, func(ctx context.Context, s *app.Session) (state.Status, error) {
				return s.Syncer.Delete(ctx, id)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the collection as JSON")
	return cmd
}

func buildLogsCommand(flags *rootFlags) *cobra.Command {
	var lines int
	var grep string
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the client log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out, err := logtail.ReadMatching(cfg.LogPath(), lines, grep)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, line := range out {
				fmt.Fprintln(w, line)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "number of lines to show (0 for all)")
	cmd.Flags().StringVar(&grep, "grep", "", "only show lines containing this text (case-insensitive)")
	return cmd
}

func buildServeCommand() *cobra.Command {
	var addr string
	var seed bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory jokes server for local development",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var srv *mockserver.Server
			if seed {
				srv = mockserver.New(mockserver.Seed()...)
			} else {
				srv = mockserver.New()
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(addr) }()
			fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n", mockserver.CollectionPath+"/", addr)

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				log.Printf("serve: shutting down")
				return srv.Shutdown()
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().BoolVar(&seed, "seed", false, "start with a few sample jokes")
	return cmd
}

func addJokeFlags(cmd *cobra.Command, setup, punchline *string) {
	cmd.Flags().StringVar(setup, "setup", "", "joke setup")
	cmd.Flags().StringVar(punchline, "punchline", "", "joke punchline")
	_ = cmd.MarkFlagRequired("setup")
	_ = cmd.MarkFlagRequired("punchline")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", raw)
	}
	return id, nil
}

// runIntent opens a session, runs one intent and prints its terminal status.
func runIntent(cmd *cobra.Command, flags *rootFlags, asJSON bool, intent func(context.Context, *app.Session) (state.Status, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := app.Open(ctx, flags.options())
	if err != nil {
		return err
	}
	defer s.Close()

	st, err := intent(ctx, s)
	if err != nil {
		return err
	}
	return printStatus(cmd.OutOrStdout(), st, asJSON)
}

func printStatus(w io.Writer, st state.Status, asJSON bool) error {
	if st.Phase == state.PhaseFailed {
		return &FailedError{Message: st.Message}
	}
	if st.Phase != state.PhaseLoaded {
		return fmt.Errorf("unexpected status %s", st)
	}

	if asJSON {
		items := st.Items
		if items == nil {
			items = []jokesapi.Joke{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSETUP\tPUNCHLINE")
	for _, joke := range st.Items {
		id := "-"
		if key, ok := joke.Key(); ok {
			id = strconv.FormatInt(key, 10)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", id, oneLine(joke.Setup), oneLine(joke.Punchline))
	}
	return tw.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// IsFailed reports whether err came from a Failed status.
func IsFailed(err error) bool {
	var failed *FailedError
	return errors.As(err, &failed)
}

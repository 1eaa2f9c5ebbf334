package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gabrielcapilla/songdash/internal/domain"
	"github.com/gabrielcapilla/songdash/internal/guard"
	"github.com/gabrielcapilla/songdash/internal/ports"
	"github.com/gabrielcapilla/songdash/internal/search"
	"github.com/gabrielcapilla/songdash/internal/services/opener"
	"github.com/gabrielcapilla/songdash/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var errNotLoggedIn = errors.New("not logged in, run `songdash login` first")

func NewRootCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:           "songdash",
		Short:         "Search a song catalog from the terminal",
		Long:          `songdash keeps a session with a song catalog service and searches it with queries of the form "<song> by <artist>".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return runUI(a, start)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config-dir", "", "Directory holding config.yml (default: user config dir)")
	flags.String("base-url", "", "Base URL of the catalog service")
	flags.Duration("timeout", 0, "Per-request timeout")
	flags.String("response-shape", "", `Search response shape, "object" or "array"`)
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("db", "", "Path of the session database")
	cmd.Flags().StringVar(&start, "start", guard.DashboardPath, "First view to open")

	cmd.AddCommand(
		NewLoginCmd(),
		NewLogoutCmd(),
		NewRegisterCmd(),
		NewSearchCmd(),
		NewHistoryCmd(),
		NewStatusCmd(),
	)
	return cmd
}

func runUI(a *app, start string) error {
	deps := ui.Deps{
		Auth:      a.auth,
		Session:   a.session,
		Searcher:  a.orchestrator,
		History:   a.store,
		Opener:    opener.NewSystemOpener(),
		Config:    a.cfg,
		StartPath: start,
	}
	p := tea.NewProgram(ui.InitialModel(deps), tea.WithAltScreen())
	a.session.OnChange(ui.SessionListener(p.Send))

	unsubscribe := a.results.Subscribe(func(s search.Snapshot) {
		p.Send(ports.ResultsUpdatedMsg{Category: s.Category, Songs: s.Songs, Err: s.Err})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func NewLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				username = prompt(cmd.OutOrStdout(), in, "Username: ")
			}
			if password == "" {
				password = prompt(cmd.OutOrStdout(), in, "Password: ")
			}

			token, err := a.auth.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := a.session.Login(token); err != nil {
				return fmt.Errorf("could not start session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s.\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when empty)")
	return cmd
}

func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func NewRegisterCmd() *cobra.Command {
	var r domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.auth.Register(cmd.Context(), r); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. You can now log in.")
			return nil
		},
	}
	cmd.Flags().StringVar(&r.FullName, "name", "", "Full name")
	cmd.Flags().StringVar(&r.Email, "email", "", "Email address")
	cmd.Flags().StringVarP(&r.Username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&r.Password, "password", "p", "", "Password")
	cmd.Flags().StringVar(&r.Role, "role", "", "One of: "+strings.Join(domain.Roles, ", "))
	return cmd
}

func NewSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     `search "<song> by <artist>"`,
		Short:   "Search the catalog",
		Example: `  songdash search "15 Step by Radiohead"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if d := guard.Decide(guard.DashboardPath, a.session); !d.Allow {
				return errNotLoggedIn
			}

			if err := a.orchestrator.Search(cmd.Context(), strings.Join(args, " ")); err != nil {
				return err
			}
			a.orchestrator.Wait()

			snap := a.results.Snapshot(domain.CategorySongs)
			if snap.Err != nil {
				return snap.Err
			}
			return printSongs(cmd.OutOrStdout(), snap.Songs)
		},
	}
}

func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent successful searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if limit <= 0 {
				limit = a.cfg.HistoryLimit
			}
			entries, err := a.store.RecentSearches(limit)
			if err != nil {
				return err
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.Query, strconv.Itoa(e.Results), e.SearchedAt.Local().Format(time.DateTime)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Query", "Results", "When"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of entries (default: historyLimit from config)")
	return cmd
}

func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog:  %s\n", a.cfg.BaseURL)
			if a.session.IsAuthenticated() {
				fmt.Fprintln(out, "Session:  logged in")
			} else {
				fmt.Fprintln(out, "Session:  logged out")
			}
			return nil
		},
	}
}

func prompt(out io.Writer, in *bufio.Reader, label string) string {
	fmt.Fprint(out, label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

func printSongs(out io.Writer, songs []domain.SongResult) error {
	if len(songs) == 0 {
		fmt.Fprintln(out, "No songs found.")
		return nil
	}
	rows := make([][]string, len(songs))
	for i, s := range songs {
		rows[i] = []string{s.Name, s.Artist, s.ExternalURL}
	}
	_, err := fmt.Fprintln(out, renderTable([]string{"Song", "Artist", "Link"}, rows))
	return err
}

func renderTable(headers []string, rows [][]string) string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return ltable.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return header
			}
			return cell
		}).
		String()
}

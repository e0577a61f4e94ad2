package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/ipc"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:     "library",
		Aliases: []string{"lib"},
		Short:   "Inspect and manage the session library",
	}

	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryShowCommand(ctx))
	libraryCmd.AddCommand(newLibraryMergeCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))
	libraryCmd.AddCommand(newLibrarySelectCommand(ctx))

	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LibraryList()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Sessions) == 0 {
					fmt.Fprintln(stdout, "Library is empty")
					return nil
				}

				rows := make([][]string, 0, len(resp.Sessions))
				for _, session := range resp.Sessions {
					rows = append(rows, []string{
						sessionMarker(session),
						session.ID,
						truncate(session.Title, 40),
						session.CourseName,
						notesVersionLabel(session),
						session.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				table := renderTable(
					[]string{"", "ID", "Title", "Course", "Notes", "Created"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				)
				fmt.Fprintln(stdout, table)
				return nil
			})
		},
	}
}

func newLibraryShowCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "show SESSION_ID",
		Short: "Show one session's transcript and notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LibraryShow(args[0])
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				session := resp.Session

				fmt.Fprintf(stdout, "Session:  %s\n", session.ID)
				fmt.Fprintf(stdout, "Title:    %s\n", session.Title)
				fmt.Fprintf(stdout, "Course:   %s\n", session.CourseName)
				fmt.Fprintf(stdout, "Created:  %s\n", session.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(stdout, "Notes:    %s\n", notesVersionLabel(session))

				fmt.Fprintln(stdout)
				fmt.Fprintln(stdout, "--- Transcript ---")
				fmt.Fprintln(stdout, maybeTruncateBlock(session.Content, full))

				if session.NotesLatest != "" {
					fmt.Fprintln(stdout)
					fmt.Fprintf(stdout, "--- Notes (v%d) ---\n", session.LatestVersion)
					fmt.Fprintln(stdout, maybeTruncateBlock(session.NotesLatest, full))
				}
				if session.NotesPrevious != "" {
					fmt.Fprintln(stdout)
					fmt.Fprintf(stdout, "--- Notes (v%d, previous) ---\n", session.PreviousVersion)
					fmt.Fprintln(stdout, maybeTruncateBlock(session.NotesPrevious, full))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Print complete transcript and notes without truncation")
	return cmd
}

func newLibraryMergeCommand(ctx *commandContext) *cobra.Command {
	var useSelection bool

	cmd := &cobra.Command{
		Use:   "merge [SESSION_ID...]",
		Short: "Merge two or more sessions into a new one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if useSelection && len(args) > 0 {
				return fmt.Errorf("--selected cannot be combined with explicit session ids")
			}
			if !useSelection && len(args) < 2 {
				return fmt.Errorf("merge requires at least two session ids (or --selected)")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				var (
					resp *ipc.LibraryMergeResponse
					err  error
				)
				if useSelection {
					resp, err = client.LibraryMergeSelected()
				} else {
					resp, err = client.LibraryMerge(args)
				}
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Created merged session %s\n", resp.Session.ID)
				fmt.Fprintf(stdout, "  Title:  %s\n", resp.Session.Title)
				fmt.Fprintf(stdout, "  Course: %s\n", resp.Session.CourseName)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&useSelection, "selected", false, "Merge the currently selected sessions in library order")
	return cmd
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "remove SESSION_ID...",
		Aliases: []string{"rm"},
		Short:   "Remove sessions from the library",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LibraryRemove(args)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Removed %d of %d session(s)\n", resp.Removed, len(args))
				return nil
			})
		},
	}
}

func newLibrarySelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select SESSION_ID",
		Short: "Toggle a session's membership in the merge selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.SelectToggle(args[0])
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Selection) == 0 {
					fmt.Fprintln(stdout, "Selection is empty")
					return nil
				}
				fmt.Fprintf(stdout, "Selected (%d): %s\n", len(resp.Selection), strings.Join(resp.Selection, ", "))
				return nil
			})
		},
	}
}

func sessionMarker(session ipc.Record) string {
	marker := ""
	if session.Active {
		marker += "*"
	}
	if session.Selected {
		marker += "+"
	}
	return marker
}

func notesVersionLabel(session ipc.Record) string {
	if session.LatestVersion == 0 {
		return "-"
	}
	label := "v" + strconv.Itoa(session.LatestVersion)
	if session.PreviousVersion > 0 {
		label += " (prev v" + strconv.Itoa(session.PreviousVersion) + ")"
	}
	return label
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

const showBlockLimit = 1200

func maybeTruncateBlock(value string, full bool) string {
	value = strings.TrimSpace(value)
	if full || len([]rune(value)) <= showBlockLimit {
		return value
	}
	return truncate(value, showBlockLimit) + "\n(truncated; use --full for the complete text)"
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/ipc"
	"lectern/internal/textutil"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export SESSION_ID",
		Short: "Write a session's transcript and notes to Markdown files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(dir)
			if target == "" {
				if cfg := ctx.configValue(); cfg != nil {
					target = cfg.Paths.ExportDir
				}
			}
			if target == "" {
				return fmt.Errorf("no export directory configured; pass --dir")
			}
			expanded, err := config.ExpandPath(target)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(expanded, 0o755); err != nil {
				return fmt.Errorf("create export directory %q: %w", expanded, err)
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.LibraryShow(args[0])
				if err != nil {
					return err
				}
				session := resp.Session
				base := textutil.SanitizeFileName(session.Title)
				if base == "" {
					base = session.ID
				}

				stdout := cmd.OutOrStdout()

				transcriptPath := filepath.Join(expanded, base+" - transcript.md")
				transcriptBody := fmt.Sprintf("# %s\n\nCourse: %s\n\n%s\n", session.Title, session.CourseName, strings.TrimSpace(session.Content))
				if err := os.WriteFile(transcriptPath, []byte(transcriptBody), 0o644); err != nil {
					return fmt.Errorf("write transcript: %w", err)
				}
				fmt.Fprintf(stdout, "Wrote %s\n", transcriptPath)

				if session.NotesLatest != "" {
					notesPath := filepath.Join(expanded, fmt.Sprintf("%s - notes v%d.md", base, session.LatestVersion))
					if err := os.WriteFile(notesPath, []byte(strings.TrimSpace(session.NotesLatest)+"\n"), 0o644); err != nil {
						return fmt.Errorf("write notes: %w", err)
					}
					fmt.Fprintf(stdout, "Wrote %s\n", notesPath)
				}
				if session.NotesPrevious != "" {
					prevPath := filepath.Join(expanded, fmt.Sprintf("%s - notes v%d.md", base, session.PreviousVersion))
					if err := os.WriteFile(prevPath, []byte(strings.TrimSpace(session.NotesPrevious)+"\n"), 0o644); err != nil {
						return fmt.Errorf("write previous notes: %w", err)
					}
					fmt.Fprintf(stdout, "Wrote %s\n", prevPath)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Destination directory (defaults to paths.export_dir)")
	return cmd
}

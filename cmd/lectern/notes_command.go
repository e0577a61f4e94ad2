package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/ipc"
)

func newNotesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "notes SESSION_ID",
		Short: "Generate (or regenerate) study notes for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RegenerateNotes(args[0])
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				session := resp.Session
				fmt.Fprintf(stdout, "Notes v%d generated for %q\n", session.LatestVersion, session.Title)
				if session.PreviousVersion > 0 {
					fmt.Fprintf(stdout, "Previous notes kept as v%d\n", session.PreviousVersion)
				}
				fmt.Fprintln(stdout)
				fmt.Fprintln(stdout, session.NotesLatest)
				return nil
			})
		},
	}
}

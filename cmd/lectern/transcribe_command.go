package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/config"
	"lectern/internal/ipc"
	"lectern/internal/textutil"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var title string
	var course string
	var refs []string

	cmd := &cobra.Command{
		Use:   "transcribe AUDIO...",
		Short: "Transcribe lecture audio into a new session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := make([]string, 0, len(args)+len(refs))
			for _, arg := range append(append([]string{}, args...), refs...) {
				expanded, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				paths = append(paths, expanded)
			}

			sessionTitle := title
			if sessionTitle == "" {
				sessionTitle = textutil.DisplayTitle(args[0])
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Transcribe(sessionTitle, course, paths)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Created session %s\n", resp.Session.ID)
				fmt.Fprintf(stdout, "  Title:  %s\n", resp.Session.Title)
				fmt.Fprintf(stdout, "  Course: %s\n", resp.Session.CourseName)
				fmt.Fprintf(stdout, "Run `lectern notes %s` to generate study notes.\n", resp.Session.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Session title (derived from the first file name when omitted)")
	cmd.Flags().StringVar(&course, "course", "", "Course to file the session under (defaults to the active course)")
	cmd.Flags().StringArrayVar(&refs, "ref", nil, "Reference document (slides, syllabus) to improve terminology; repeatable")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lectern/internal/ipc"
)

func newCoursesCommand(ctx *commandContext) *cobra.Command {
	coursesCmd := &cobra.Command{
		Use:   "courses",
		Short: "Manage the course catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CourseList()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				for _, name := range resp.Courses {
					marker := "  "
					if name == resp.Active {
						marker = "* "
					}
					fmt.Fprintf(stdout, "%s%s\n", marker, name)
				}
				return nil
			})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CourseAdd(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added course %q\n", resp.Name)
				return nil
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Remove a course",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.CourseRemove(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed course %q\n", args[0])
				return nil
			})
		},
	}

	useCmd := &cobra.Command{
		Use:   "use NAME",
		Short: "Make a course the active filing target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CourseUse(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active course is now %q\n", resp.Name)
				return nil
			})
		},
	}

	coursesCmd.AddCommand(listCmd, addCmd, removeCmd, useCmd)
	return coursesCmd
}

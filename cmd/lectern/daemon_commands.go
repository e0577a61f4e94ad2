package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lectern/internal/ipc"
)

const (
	daemonStartTimeout = 10 * time.Second
	daemonStopTimeout  = 5 * time.Second
	daemonPollInterval = 100 * time.Millisecond
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the lectern daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			if client, err := ipc.Dial(ctx.socketPath()); err == nil {
				client.Close()
				fmt.Fprintln(stdout, "Daemon already running")
				return nil
			}

			exe, err := daemonExecutable()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon not running, launching...")
			if err := launchDaemon(ctx, exe); err != nil {
				return err
			}
			if err := waitForSocket(ctx.socketPath(), daemonStartTimeout); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon started")
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the lectern daemon (discards the in-memory session library)",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			client, err := ipc.Dial(ctx.socketPath())
			if err != nil {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			defer client.Close()

			if _, err := client.Shutdown(); err != nil {
				return fmt.Errorf("request shutdown: %w", err)
			}
			if err := waitForSocketGone(ctx.socketPath(), daemonStopTimeout); err != nil {
				fmt.Fprintln(stdout, "Stop request sent")
				return nil
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	var probeBackend bool

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and session library status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Daemon", colorize) {
				fmt.Fprintln(stdout, line)
			}

			client, err := ipc.Dial(ctx.socketPath())
			if err != nil {
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusError, "not running", colorize))
				fmt.Fprintln(stdout, renderStatusLine("Socket", statusInfo, ctx.socketPath(), colorize))
				return nil
			}
			defer client.Close()

			status, err := client.Status()
			if err != nil {
				return fmt.Errorf("query status: %w", err)
			}

			fmt.Fprintln(stdout, renderStatusLine("Daemon", statusOK, fmt.Sprintf("running (pid %d)", status.PID), colorize))
			if status.SessionID != "" {
				fmt.Fprintln(stdout, renderStatusLine("Session", statusInfo, status.SessionID, colorize))
			}
			if !status.StartedAt.IsZero() {
				uptime := time.Since(status.StartedAt).Round(time.Second)
				fmt.Fprintln(stdout, renderStatusLine("Uptime", statusInfo, uptime.String(), colorize))
			}
			fmt.Fprintln(stdout, renderStatusLine("Sessions", statusInfo, strconv.Itoa(status.SessionCount), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Courses", statusInfo, strconv.Itoa(status.CourseCount), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Active course", statusInfo, status.ActiveCourse, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Course catalog", statusInfo, status.CatalogPath, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Socket", statusInfo, ctx.socketPath(), colorize))

			if probeBackend {
				health, err := client.Health()
				switch {
				case err != nil:
					return fmt.Errorf("probe backend: %w", err)
				case health.Healthy:
					fmt.Fprintln(stdout, renderStatusLine("Backend", statusOK, "reachable", colorize))
				default:
					fmt.Fprintln(stdout, renderStatusLine("Backend", statusError, health.Message, colorize))
				}
			}
			return nil
		},
	}
	statusCmd.Flags().BoolVar(&probeBackend, "health", false, "Probe the AI backend with a minimal completion")

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

// daemonExecutable finds lecternd next to the current binary, falling back
// to PATH lookup.
func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "lecternd")
		if info, statErr := os.Stat(sibling); statErr == nil && !info.IsDir() {
			return sibling, nil
		}
	}
	path, lookErr := exec.LookPath("lecternd")
	if lookErr != nil {
		return "", fmt.Errorf("locate lecternd executable: %w", lookErr)
	}
	return path, nil
}

func launchDaemon(ctx *commandContext, exe string) error {
	args := []string{}
	if ctx.configFlag != nil {
		if cfgPath := strings.TrimSpace(*ctx.configFlag); cfgPath != "" {
			args = append(args, "--config", cfgPath)
		}
	}
	cmd := exec.Command(exe, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %s: %w", exe, err)
	}
	// Detach; the daemon manages its own lifetime from here.
	return cmd.Process.Release()
}

func waitForSocket(socket string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socket)
		if err == nil {
			client.Close()
			return nil
		}
		time.Sleep(daemonPollInterval)
	}
	return fmt.Errorf("daemon did not come up within %s (socket %s)", timeout, socket)
}

func waitForSocketGone(socket string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socket)
		if err != nil {
			return nil
		}
		client.Close()
		time.Sleep(daemonPollInterval)
	}
	return fmt.Errorf("daemon still responding after %s", timeout)
}

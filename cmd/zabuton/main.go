package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"
	"github.com/oklog/run"
	"github.com/sirupsen/logrus"

	"github.com/sh4/zabuton/cmd/zabuton/commands"
	"github.com/sh4/zabuton/internal/log"
	loglogrus "github.com/sh4/zabuton/internal/log/logrus"
	"github.com/sh4/zabuton/internal/model"
)

const (
	// Version is the application version (set via ldflags).
	Version = "dev"
)

// Run runs the main application.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	app := kingpin.New("zabuton", "Toolchain installer and workspace worktree manager.")
	app.DefaultEnvars()
	rootCmd := commands.NewRootCommand(app)

	toolchainCmd := app.Command("toolchain", "Manage the bundled toolchain.")
	toolchainInstallCmd := commands.NewToolchainInstallCommand(rootCmd, toolchainCmd)

	worktreeCmd := app.Command("worktree", "Manage workspace worktrees.")
	worktreeCreateCmd := worktreeCmd.Command("create", "Create a worktree for a new workspace.")
	worktreeCreateZipCmd := commands.NewWorktreeCreateCommand(rootCmd, worktreeCreateCmd, model.WorktreeKindZipFile)
	worktreeCreateGitCmd := commands.NewWorktreeCreateCommand(rootCmd, worktreeCreateCmd, model.WorktreeKindGit)
	worktreeCreateDirCmd := commands.NewWorktreeCreateCommand(rootCmd, worktreeCreateCmd, model.WorktreeKindDirectory)
	worktreeListCmd := commands.NewWorktreeListCommand(rootCmd, worktreeCmd)
	worktreeRmCmd := commands.NewWorktreeRemoveCommand(rootCmd, worktreeCmd)

	gitCmd := app.Command("git", "Operate on git worktrees.")
	gitInfoCmd := commands.NewGitInfoCommand(rootCmd, gitCmd)
	gitFetchCmd := commands.NewGitFetchCommand(rootCmd, gitCmd)
	gitCheckoutCmd := commands.NewGitCheckoutCommand(rootCmd, gitCmd)
	gitResetCmd := commands.NewGitResetCommand(rootCmd, gitCmd)
	gitLogCmd := commands.NewGitLogCommand(rootCmd, gitCmd)

	cmds := map[string]commands.Command{
		toolchainInstallCmd.Name():  toolchainInstallCmd,
		worktreeCreateZipCmd.Name(): worktreeCreateZipCmd,
		worktreeCreateGitCmd.Name(): worktreeCreateGitCmd,
		worktreeCreateDirCmd.Name(): worktreeCreateDirCmd,
		worktreeListCmd.Name():      worktreeListCmd,
		worktreeRmCmd.Name():        worktreeRmCmd,
		gitInfoCmd.Name():           gitInfoCmd,
		gitFetchCmd.Name():          gitFetchCmd,
		gitCheckoutCmd.Name():       gitCheckoutCmd,
		gitResetCmd.Name():          gitResetCmd,
		gitLogCmd.Name():            gitLogCmd,
	}

	// Parse command.
	cmdName, err := app.Parse(args[1:])
	if err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}

	// Set standard input/output.
	rootCmd.Stdin = stdin
	rootCmd.Stdout = stdout
	rootCmd.Stderr = stderr

	// Commands printing tables or JSON stay quiet unless debugging.
	printerCommands := map[string]bool{
		"worktree list": true,
		"git info":      true,
		"git log":       true,
	}
	if printerCommands[cmdName] && !rootCmd.Debug {
		rootCmd.NoLog = true
	}
	if rootCmd.NoColor {
		color.NoColor = true
	}

	// Set logger.
	rootCmd.Logger = getLogger(ctx, *rootCmd)

	if err := rootCmd.LoadSettings(ctx); err != nil {
		return err
	}

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer signalCancel()

		g.Add(
			func() error {
				<-signalCtx.Done()
				rootCmd.Logger.Debugf("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// Execute command.
	{
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g.Add(
			func() error {
				err := cmds[cmdName].Run(ctx)
				if err != nil {
					return fmt.Errorf("%q command failed: %w", cmdName, err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	return g.Run()
}

// getLogger returns the application logger.
func getLogger(ctx context.Context, config commands.RootCommand) log.Logger {
	if config.NoLog {
		return log.Noop
	}

	logrusLog := logrus.New()
	logrusLog.Out = config.Stderr // Stdout is for printers.
	logrusLogEntry := logrus.NewEntry(logrusLog)

	if config.Debug {
		logrusLogEntry.Logger.SetLevel(logrus.DebugLevel)
	}

	switch config.LoggerType {
	case commands.LoggerTypeDefault:
		logrusLogEntry.Logger.SetFormatter(&logrus.TextFormatter{
			ForceColors:   !config.NoColor,
			DisableColors: config.NoColor,
		})
	case commands.LoggerTypeJSON:
		logrusLogEntry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger := loglogrus.NewLogrus(logrusLogEntry).WithValues(log.Kv{
		"version": Version,
	})

	logger.Debugf("Debug level is enabled")

	return logger
}

func main() {
	ctx := context.Background()
	err := Run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

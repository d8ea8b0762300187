package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/sh4/zabuton/internal/app/toolchaininstall"
	"github.com/sh4/zabuton/internal/conventions"
	"github.com/sh4/zabuton/internal/toolchain"
)

// ToolchainInstallCommand installs the bundled toolchain.
type ToolchainInstallCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	bundleDir string
	format    string
}

// NewToolchainInstallCommand returns the toolchain install command.
func NewToolchainInstallCommand(rootCmd *RootCommand, parent *kingpin.CmdClause) *ToolchainInstallCommand {
	c := &ToolchainInstallCommand{rootCmd: rootCmd}

	c.Cmd = parent.Command("install", "Install the bundled toolchain, replacing the current one.")
	c.Cmd.Flag("bundle-dir", "Directory with the toolchain archive and symlink manifest, overrides the settings.").StringVar(&c.bundleDir)
	addFormatFlag(c.Cmd, &c.format)

	return c
}

func (c ToolchainInstallCommand) Name() string { return c.Cmd.FullCommand() }

func (c ToolchainInstallCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger
	settings := c.rootCmd.Settings

	bundleDir := settings.ToolchainBundleDir
	if c.bundleDir != "" {
		bundleDir = c.bundleDir
	}

	ex, err := c.rootCmd.newExtractor()
	if err != nil {
		return err
	}

	installer, err := toolchain.NewInstaller(toolchain.InstallerConfig{
		Root:         conventions.ToolchainRoot(settings.DataDir),
		ArchivePath:  conventions.ToolchainArchivePath(bundleDir),
		ManifestPath: conventions.SymlinkManifestPath(bundleDir),
		Extractor:    ex,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("could not create installer: %w", err)
	}

	svc, err := toolchaininstall.NewService(toolchaininstall.ServiceConfig{
		Installer: installer,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	consumer, err := c.rootCmd.progressConsumer()
	if err != nil {
		return err
	}

	res, err := svc.Run(ctx, toolchaininstall.Request{Consumer: consumer})
	if err != nil {
		return err
	}

	if err := c.rootCmd.newPrinter(c.format).PrintInstall(*res); err != nil {
		return fmt.Errorf("could not print install result: %w", err)
	}

	return nil
}

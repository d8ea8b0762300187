package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"k8s.io/client-go/util/homedir"

	"github.com/sh4/zabuton/internal/conventions"
	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/printer"
	storageio "github.com/sh4/zabuton/internal/storage/io"
)

const (
	// LoggerTypeDefault is the logger default type.
	LoggerTypeDefault = "default"
	// LoggerTypeJSON is the logger json type.
	LoggerTypeJSON = "json"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// Command represents an application command, all commands that want to be executed
// should implement and setup on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// RootCommand represents the root command configuration and global configuration
// for all the commands.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	NoProgress bool
	LoggerType string
	DataDir    string
	ConfigFile string

	// Global instances.
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   log.Logger
	Settings model.Settings
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger and progress color.").BoolVar(&c.NoColor)
	app.Flag("no-progress", "Disable progress bars.").BoolVar(&c.NoProgress)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)

	defaultDataDir := filepath.Join(homedir.HomeDir(), conventions.DefaultDataDir)
	app.Flag("data-dir", "Directory holding the toolchain, worktrees and caches.").Default(defaultDataDir).StringVar(&c.DataDir)
	app.Flag("config", "Settings file, defaults to config.yaml in the data directory.").StringVar(&c.ConfigFile)

	return c
}

// LoadSettings loads the settings file on top of the flag values. A missing
// default settings file is not an error.
func (c *RootCommand) LoadSettings(ctx context.Context) error {
	base := model.Settings{
		DataDir:            c.DataDir,
		ToolchainBundleDir: filepath.Join(c.DataDir, "bundle"),
	}

	path := c.ConfigFile
	if path == "" {
		path = filepath.Join(c.DataDir, conventions.DefaultConfigFile)
	} else if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("could not read settings file: %w", err)
	}

	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("could not resolve settings file path: %w", err)
	}

	repo := storageio.NewSettingsYAMLRepository(os.DirFS("/"), base)
	s, err := repo.GetSettings(ctx, path[1:])
	if err != nil {
		return fmt.Errorf("could not load settings: %w", err)
	}
	c.Settings = s

	return nil
}

// newPrinter returns the printer for the output format.
func (c *RootCommand) newPrinter(format string) printer.Printer {
	if format == formatJSON {
		return printer.NewJSONPrinter(c.Stdout)
	}
	return printer.NewTablePrinter(c.Stdout)
}

func addFormatFlag(cmd *kingpin.CmdClause, format *string) {
	cmd.Flag("format", "Output format (table, json).").Default(formatTable).EnumVar(format, formatTable, formatJSON)
}

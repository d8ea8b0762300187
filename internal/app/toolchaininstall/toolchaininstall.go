package toolchaininstall

import (
	"context"
	"fmt"
	"time"

	"github.com/sh4/zabuton/internal/log"
	"github.com/sh4/zabuton/internal/progress"
	"github.com/sh4/zabuton/internal/toolchain"
)

// Installer installs a toolchain.
type Installer interface {
	Install(ctx context.Context, req toolchain.InstallRequest) (*toolchain.InstallResult, error)
}

// ServiceConfig is the configuration for the toolchain install service.
type ServiceConfig struct {
	Installer Installer
	Logger    log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Installer == nil {
		return fmt.Errorf("installer is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.ToolchainInstall"})

	return nil
}

// Service installs the bundled toolchain.
type Service struct {
	installer Installer
	logger    log.Logger
}

// NewService creates a new toolchain install service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		installer: cfg.Installer,
		logger:    cfg.Logger,
	}, nil
}

// Request represents the install request parameters.
type Request struct {
	// Consumer receives the install stages, nil drains them.
	Consumer progress.Consumer
}

// Run installs the toolchain.
func (s *Service) Run(ctx context.Context, req Request) (*toolchain.InstallResult, error) {
	logger := s.logger.WithCtxValues(ctx)
	start := time.Now()

	res, err := s.installer.Install(ctx, toolchain.InstallRequest{Consumer: req.Consumer})
	if err != nil {
		return nil, fmt.Errorf("could not install toolchain: %w", err)
	}

	logger.WithValues(log.Kv{
		"files":    res.Extract.Files,
		"bytes":    res.Extract.Bytes,
		"commands": res.Commands,
		"links":    res.Links,
	}).Infof("Toolchain installed at %s in %s", res.Root, time.Since(start).Round(time.Millisecond))

	return res, nil
}

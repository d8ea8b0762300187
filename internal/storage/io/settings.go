package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sh4/zabuton/internal/model"
	"github.com/sh4/zabuton/internal/storage"
)

// SettingsYAMLRepository loads the application settings from YAML files.
type SettingsYAMLRepository struct {
	fs   fs.FS
	base model.Settings
}

var _ storage.SettingsRepository = &SettingsYAMLRepository{}

// NewSettingsYAMLRepository creates a new YAML settings repository, base
// holds the values used when the file doesn't set them.
func NewSettingsYAMLRepository(filesystem fs.FS, base model.Settings) *SettingsYAMLRepository {
	return &SettingsYAMLRepository{fs: filesystem, base: base}
}

// GetSettings loads the settings file at path. A missing file is not an
// error, the base settings are returned.
func (r *SettingsYAMLRepository) GetSettings(ctx context.Context, path string) (model.Settings, error) {
	data, err := fs.ReadFile(r.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return r.base, nil
	}
	if err != nil {
		return model.Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	if ctx.Err() != nil {
		return model.Settings{}, ctx.Err()
	}

	var cfg SettingsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.Settings{}, fmt.Errorf("parsing YAML: %w", err)
	}

	s, err := cfg.toModel(r.base)
	if err != nil {
		return model.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return model.Settings{}, fmt.Errorf("invalid settings: %w", err)
	}

	return s, nil
}

// SettingsConfig represents the YAML structure of the settings file.
type SettingsConfig struct {
	DataDir   string          `yaml:"data_dir"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
	Git       GitConfig       `yaml:"git"`
	Download  DownloadConfig  `yaml:"download"`
}

// ToolchainConfig represents the YAML structure of the toolchain settings.
type ToolchainConfig struct {
	BundleDir string `yaml:"bundle_dir"`
	Workers   *int   `yaml:"workers"`
}

// GitConfig represents the YAML structure of the git settings.
type GitConfig struct {
	CABundle string `yaml:"ca_bundle"`
}

// DownloadConfig represents the YAML structure of the download settings.
type DownloadConfig struct {
	Timeout string `yaml:"timeout"`
}

func (c SettingsConfig) toModel(base model.Settings) (model.Settings, error) {
	s := base
	if c.DataDir != "" {
		s.DataDir = c.DataDir
	}
	if c.Toolchain.BundleDir != "" {
		s.ToolchainBundleDir = c.Toolchain.BundleDir
	}
	if c.Toolchain.Workers != nil {
		s.ExtractWorkers = *c.Toolchain.Workers
	}
	if c.Git.CABundle != "" {
		s.GitCABundle = c.Git.CABundle
	}
	if c.Download.Timeout != "" {
		d, err := time.ParseDuration(c.Download.Timeout)
		if err != nil {
			return model.Settings{}, fmt.Errorf("download timeout %q: %w", c.Download.Timeout, model.ErrNotValid)
		}
		s.DownloadTimeout = d
	}

	return s, nil
}

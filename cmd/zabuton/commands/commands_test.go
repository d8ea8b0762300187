package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sh4/zabuton/internal/model"
)

func TestWorkspaceName(t *testing.T) {
	tests := map[string]struct {
		name    string
		source  string
		expName string
	}{
		"An explicit name should win": {
			name:    "mine",
			source:  "https://example.com/repo.git",
			expName: "mine",
		},
		"A git URL should use the repository name": {
			source:  "https://example.com/org/repo.git",
			expName: "repo",
		},
		"A zip URL should drop the extensions": {
			source:  "file:///tmp/sketch.tar.zip",
			expName: "sketch",
		},
		"A directory with a trailing slash should use its base name": {
			source:  "/home/user/projects/blink/",
			expName: "blink",
		},
		"A root source should fall back to a generic name": {
			source:  "/",
			expName: "workspace",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expName, workspaceName(tc.name, tc.source))
		})
	}
}

func TestRootCommandLoadSettings(t *testing.T) {
	tests := map[string]struct {
		config      string
		explicit    bool
		expSettings func(dataDir string) model.Settings
		expErr      bool
	}{
		"A missing default settings file should use the flag values": {
			expSettings: func(dataDir string) model.Settings {
				return model.Settings{DataDir: dataDir, ToolchainBundleDir: filepath.Join(dataDir, "bundle")}
			},
		},
		"The default settings file should override the flag values": {
			config: "toolchain:\n  workers: 3\ndownload:\n  timeout: 1m\n",
			expSettings: func(dataDir string) model.Settings {
				return model.Settings{
					DataDir:            dataDir,
					ToolchainBundleDir: filepath.Join(dataDir, "bundle"),
					ExtractWorkers:     3,
					DownloadTimeout:    time.Minute,
				}
			},
		},
		"A missing explicit settings file should fail": {
			explicit: true,
			expErr:   true,
		},
		"An invalid settings file should fail": {
			config: "download:\n  timeout: soon\n",
			expErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			dataDir := t.TempDir()
			c := &RootCommand{DataDir: dataDir}
			if tc.explicit {
				c.ConfigFile = filepath.Join(dataDir, "missing.yaml")
			}
			if tc.config != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dataDir, "config.yaml"), []byte(tc.config), 0o644))
			}

			err := c.LoadSettings(context.Background())

			if tc.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expSettings(dataDir), c.Settings)
		})
	}
}

package gogit

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5/plumbing/transport/client"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/sh4/zabuton/internal/conventions"
	"github.com/sh4/zabuton/internal/model"
)

// InitConfig is the process wide git configuration.
type InitConfig struct {
	// CABundle is a PEM root certificate bundle trusted for https remotes.
	// Empty uses the system roots.
	CABundle string
	// DataDir receives the stable copy of the bundle.
	DataDir string
}

type initializer struct {
	once sync.Once
	err  error
	// install registers the https transport.
	install func(*http.Client)
}

var global = &initializer{install: func(c *http.Client) {
	client.InstallProtocol("https", githttp.NewClient(c))
}}

// Initialize sets up git for the process. Only the first call does the work,
// the rest return its result.
func Initialize(cfg InitConfig) error {
	return global.ensure(cfg)
}

func (i *initializer) ensure(cfg InitConfig) error {
	i.once.Do(func() {
		i.err = i.initialize(cfg)
	})
	return i.err
}

func (i *initializer) initialize(cfg InitConfig) error {
	if cfg.CABundle == "" {
		return nil
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data dir is required to install a CA bundle: %w", model.ErrNotValid)
	}

	pem, err := os.ReadFile(cfg.CABundle)
	if err != nil {
		return fmt.Errorf("could not read CA bundle: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return fmt.Errorf("CA bundle %q has no certificates: %w", cfg.CABundle, model.ErrNotValid)
	}

	dst := conventions.CABundlePath(cfg.DataDir)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("could not create data dir: %w", err)
	}
	if err := os.WriteFile(dst, pem, 0o644); err != nil {
		return fmt.Errorf("could not write CA bundle: %w", err)
	}

	i.install(&http.Client{
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12},
		},
	})

	return nil
}

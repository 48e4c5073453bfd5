package config

import (
	"fmt"
	"path/filepath"

	"github.com/gmuwork/sailfish-investment-portfolio/pkg/confkit"
	"github.com/gmuwork/sailfish-investment-portfolio/pkg/provider"
)

// MustLoadProvider loads etc/provider.yaml from the project root and panics
// on error. It isolates the provider section so tests can build provider
// instances without the full application config.
func MustLoadProvider() *provider.Config {
	root := confkit.MustProjectRoot()
	path := filepath.Join(root, "etc", "provider.yaml")
	cfg, err := provider.LoadConfig(path)
	if err != nil {
		panic(fmt.Errorf("load provider config %s: %w", path, err))
	}
	return cfg
}

package provider

import (
	"github.com/mugiliam/hatchsettingsrv/internal/config"
)

// Factory builds a provider instance from the host configuration.
// Construction performs no I/O; connections happen in Init.
type Factory func(cfg *config.SettingsConfig) Provider

// registration happens during package init, before any lookup
var registry = make(map[string]Factory)

func Register(name string, f Factory) {
	registry[name] = f
}

func Lookup(name string) (Factory, bool) {
	f, ok := registry[name]
	return f, ok
}

func Exists(name string) bool {
	_, exists := registry[name]
	return exists
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// Package config loads and validates keyhint settings.
//
// Settings come from a TOML or YAML file (by extension) overlaid with
// KEYHINT_* environment variables. Every recognised key has a default,
// so a missing file is not an error. The merged map is decoded with
// mapstructure and then validated; the first invalid value is reported
// as a *ParseError naming the offending key.
//
// Basic usage:
//
//	cfg, err := config.Load(config.Path())
//	if err != nil {
//		return err
//	}
//	store := config.NewStore(cfg)
//
// The Store holds the active configuration. A Watcher reloads the file
// on change and publishes valid results into the Store; invalid edits
// are logged and the previous configuration stays active.
package config

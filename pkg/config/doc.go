// Package config handles configuration management for gantry.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/gantry/config.toml
//  3. the project file, gantry.toml or .gantry.toml in the project root
//  4. GANTRY_<SECTION>_<KEY> environment variables
//
// The result is an immutable Config value that callers pass explicitly to
// the components that need it. There is no package-level instance.
package config

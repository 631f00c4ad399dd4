// Package config loads and validates the TOML configuration consumed by the
// vigil daemon and CLI.
//
// Configuration resolves from an explicit --config path, then
// ~/.config/vigil/config.toml, then a vigil.toml in the working directory.
// A .env file is honored before decoding so paths can reference environment
// overrides. All path fields are expanded and absolutized during load.
package config

// Package config loads, normalizes, and validates mopi configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MOPI_MOVIES_DIR environment
// fallback. The Config type centralizes every knob the render pipeline needs
// (output directory, worker pool sizing, frame selection, video encoding and
// logging) so the CLI can layer explicit flags over one sanitized value.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, dotted extensions, and clear validation errors.
package config

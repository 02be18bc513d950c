// Package main hosts the mopi CLI entrypoint and command graph.
//
// The root command renders a movie: it resolves the movie plugin, layers
// explicit flags over the TOML configuration, and hands the resulting
// settings to the pipeline. Subcommands list available movies, check the
// environment, and scaffold configuration files.
//
// Keep this package lean: new behaviour belongs in the internal packages and
// is surfaced here through flags or dedicated commands.
package main

// Package main hosts the anglicorpus CLI entrypoint and command graph.
//
// The Cobra-based command tree drives transcript collection, corpus analysis,
// stored report rendering, run status, and vocabulary maintenance. It
// centralizes configuration resolution and structured logging setup so
// subcommands only translate flags into calls on the internal packages.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main

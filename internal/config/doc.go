// Package config provides configuration management for the advisory shim.
//
// Settings flow through three layers, lowest precedence first: compiled-in
// defaults (NewDefault), an optional YAML file (LoadFromFile), and
// environment variables (LoadFromEnv, FADV_* names). The shim reads the
// environment exactly once, during its initialization barrier; later changes
// to the environment have no effect on a running process.
//
// Parsing is deliberately forgiving: a malformed or non-positive
// FADV_SMALL_CUTOFF keeps the 1 MiB default, and an unrecognized
// FADV_OPEN_HINT token leaves the current mode untouched. The shim sits on
// the application's I/O path, so configuration mistakes must degrade to
// default behavior rather than break file access.
package config

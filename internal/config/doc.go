// Package config loads the matchkit configuration from a TOML file and
// watches it for live reload.
//
// Every setting has a usable default; a missing file is not an error. A
// file that fails to parse or validate reports a *ParseError and leaves
// the previous configuration in effect.
package config

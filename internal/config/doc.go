// Package config holds the run configuration of hitksoup: defaults, the
// optional .hitksoup settings file, and the XDG directories used for
// profiles and run history.
package config

// Package config loads pipeline and service settings from a YAML file.
//
// The file is versioned so incompatible layout changes can be rejected
// up front instead of surfacing as half-applied settings at run time.
package config

// Package config defines the format-agnostic configuration model for the
// application and the Loader interface that produces it.
//
// Concrete implementations, such as for HCL, are provided in separate
// packages.
package config

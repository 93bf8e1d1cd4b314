// Package config loads application configuration from environment variables
// (IDR_ prefix) layered over an optional YAML file, and validates it.
package config

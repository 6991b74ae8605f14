// Package config loads process configuration from environment variables.
package config

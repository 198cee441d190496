// Package utils houses the configuration loader and logger factory shared by
// the CLI: viper with embedded defaults, .env files and environment
// overrides, and zap loggers in structured or console form.
package utils

// Package cli provides command-line interface setup and configuration
// for the flashsort application. It builds the cobra command tree, layers
// flags over the config file and FLASHSORT_* environment variables with
// viper, and configures slog.
package cli

// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging for the CLI,
// together with small writer and context helpers.
package utils

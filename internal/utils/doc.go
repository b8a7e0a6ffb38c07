// Package utils holds the ambient plumbing shared by every pombump command:
// the Viper-backed ConfigurationLoader with its embedded defaults and POMBUMP_
// environment overrides, the zap LoggerFactory producing diagnostic and console
// loggers, and the context helpers that carry the resolved configuration file.
package utils

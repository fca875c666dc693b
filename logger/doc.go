// Package logger provides structured logging for memoscribe using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and map-based structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("transcription")
//	log.Info("model loaded", logger.Fields("model", "base", "device", "cpu"))
package logger

// Package config provides configuration management for the calendar
// generator service.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file (CALGEN_CONFIG_FILE, config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CALGEN_<SECTION>_<FIELD>:
//
//	CALGEN_SERVER_PORT=8080
//	CALGEN_LOGGING_LEVEL=debug
//	CALGEN_TEMPLATES_CALENDAR_PATH=/data/Template.docx
//	CALGEN_TEMPLATES_QUOTES_FALLBACK=/app/Template_quotes.docx
//	CALGEN_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config

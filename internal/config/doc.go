// Package config loads the analyzer configuration.
//
// # Configuration Sources
//
// Values are applied in this order, later sources winning:
//
//	1. Built-in defaults (Default)
//	2. A YAML file passed with --config
//	3. Environment variables prefixed with ANALYZER_
//
// The merged result is validated with struct tags before use.
//
// # Environment Variables
//
// Nested keys are joined with underscores:
//
//	ANALYZER_LOGGING_LEVEL=debug
//	ANALYZER_LOADER_DATE_LAYOUT=02/01/2006
//	ANALYZER_LOADER_REQUIRED_COLUMNS=date,category,amount
//	ANALYZER_CHARTS_COLORMAP=viridis
//	ANALYZER_TELEMETRY_ENABLED=true
//
// # Example File
//
//	logging:
//	  level: debug
//	  output: both
//	  file_path: analyzer.log
//	analysis:
//	  value_column: amount
//	  top_n: 3
//	charts:
//	  width: 1200
//	  colormap: blues
//	export:
//	  bom: true
//	  delimiter: ";"
//	paths:
//	  reports_dir: out/reports
//	  charts_dir: out/charts
//
// # Paths
//
// NewPaths resolves the output directories in PathsConfig. Bare file names
// given to GetReportPath, GetChartPath or GetLogPath land in the configured
// directory; anything with a directory component is used as given.
package config

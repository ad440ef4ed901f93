// Package exporter saves analysis tables to disk.
//
// CSVWriter writes delimited text with an optional UTF-8 BOM and a
// configurable delimiter. XLSXWriter writes a single-sheet workbook with
// excelize. WriteTable picks between them from the file extension and
// applies the export section of the configuration:
//
//	path, err := exporter.WriteTable("summary.xlsx", result, paths, cfg.Export, logger)
//
// Relative file names without a directory land in the reports directory of
// the configured config.Paths.
package exporter

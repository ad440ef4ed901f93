// Package loader reads transactional records into a dataset.Table and prepares
// them for analysis.
//
// The loader covers three steps that always run in order:
//
//	Load      parse a delimited file (or an .xlsx workbook) into a text table
//	Validate  check required columns and drop rows with missing values
//	Clean     parse the date column and convert numeric text columns
//
// Cleaning is lenient. Rows whose date does not parse are dropped, and a text
// column is converted to numbers only when every value in it parses; a column
// with a single non-numeric value stays text.
//
// FilterByDateRange and FilterByCategories narrow a table after cleaning.
package loader

// Package dataset provides Table, the in-memory record table passed between the
// loader, analyzer, exporter and visualizer.
//
// A Table is an ordered list of named columns and an ordered list of rows. Each
// cell holds one of:
//
//	nil        missing value
//	string     text
//	float64    number (NaN is treated as missing)
//	time.Time  calendar date
//
// Tables are values. Filter, Select and WithColumn return new tables and never
// modify the receiver, so an analysis can not alter data another stage holds.
//
// # Usage
//
//	t, err := dataset.New([]string{"category", "amount"}, [][]any{
//	    {"Food", 100.0},
//	    {"Transport", 50.0},
//	})
//	food := t.Filter(func(r dataset.Row) bool { return r.Get("category") == "Food" })
//	fmt.Print(food)
package dataset

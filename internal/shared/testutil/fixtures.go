package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TransactionsCSV is a small well-formed transactions file
const TransactionsCSV = `date,category,amount,customer_id
2025-04-01,Food,100,C1
2025-04-02,Transport,50,C2
2025-04-03,Food,200,C1
2025-04-04,Entertainment,75,C3
2025-04-05,Transport,75,C2
`

// DirtyTransactionsCSV mixes valid rows with a malformed date and a missing
// amount.
const DirtyTransactionsCSV = `date,category,amount,customer_id
2025-04-01,Food,100,C1
invalid_date,Food,20,C2
2025-04-02,Transport,50,C2
2025-04-03,Food,,C1
2025-04-04,Entertainment,75,C3
`

// WriteFile writes content to name inside a fresh temp directory and returns
// the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

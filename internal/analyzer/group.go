package analyzer

import (
	"sort"
	"strings"
	"time"

	"github.com/Eldaram/data-analyzer/internal/dataset"
	apperrors "github.com/Eldaram/data-analyzer/internal/errors"
)

// groupKey identifies a group by kind and text form, so the number 1 and
// the text "1" stay apart.
type groupKey struct {
	rank int
	text string
}

type group struct {
	key    any
	values []float64
}

// group splits valueCol by the distinct values of keyCol. Rows with a missing
// key are skipped. Groups come back in ascending key order.
func (a *Analyzer) group(keyCol, valueCol string) ([]group, error) {
	if missing := a.table.Missing(keyCol, valueCol); len(missing) > 0 {
		return nil, apperrors.NewSchemaError(missing...)
	}
	keys, _ := a.table.Column(keyCol)
	values, err := a.table.Floats(valueCol)
	if err != nil {
		return nil, err
	}

	index := make(map[groupKey]int)
	var groups []group
	for i, k := range keys {
		if dataset.IsMissing(k) {
			continue
		}
		id := groupKey{rank: keyRank(k), text: dataset.FormatValue(k)}
		g, ok := index[id]
		if !ok {
			g = len(groups)
			index[id] = g
			groups = append(groups, group{key: k})
		}
		groups[g].values = append(groups[g].values, values[i])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return compareKeys(groups[i].key, groups[j].key) < 0
	})
	return groups, nil
}

// compareKeys orders numbers numerically, dates chronologically and anything
// else by its text form. Numbers sort before dates, dates before text.
func compareKeys(a, b any) int {
	ra, rb := keyRank(a), keyRank(b)
	if ra != rb {
		return ra - rb
	}
	switch x := a.(type) {
	case float64:
		y := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case time.Time:
		return x.Compare(b.(time.Time))
	}
	return strings.Compare(dataset.FormatValue(a), dataset.FormatValue(b))
}

func keyRank(v any) int {
	switch v.(type) {
	case float64:
		return 0
	case time.Time:
		return 1
	}
	return 2
}

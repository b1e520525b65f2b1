package analytics

import (
	"reflect"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDirection flips the comparator sign.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

var collator = collate.New(language.English, collate.Loose)

// SortByField returns a copy of groups stably sorted by the named exported
// struct field. String fields compare through a locale-aware collator,
// numeric fields numerically; an unknown field name leaves the order
// untouched. Equal keys keep their original relative order.
func SortByField[T any](groups []T, field string, direction SortDirection) []T {
	sorted := append([]T(nil), groups...)
	if len(sorted) < 2 {
		return sorted
	}
	if _, ok := reflect.TypeOf(sorted[0]).FieldByName(field); !ok {
		return sorted
	}

	sign := 1
	if direction == Descending {
		sign = -1
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		a := reflect.ValueOf(sorted[i]).FieldByName(field)
		b := reflect.ValueOf(sorted[j]).FieldByName(field)
		return compareValues(a, b)*sign < 0
	})
	return sorted
}

func compareValues(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.String:
		return collator.CompareString(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return compareFloat(float64(a.Int()), float64(b.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return compareFloat(float64(a.Uint()), float64(b.Uint()))
	case reflect.Float32, reflect.Float64:
		return compareFloat(a.Float(), b.Float())
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

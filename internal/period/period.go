// Package period buckets activities by calendar month.
//
// Activities carry their month as a free-text English name, so everything here
// works on names: a Bucket is a named set of months and matching is
// case-insensitive on the trimmed month text.
package period

import (
	"strings"
	"time"
)

// Bucket selects a subset of calendar months.
type Bucket string

const (
	All  Bucket = "all"
	Year Bucket = "year"
	Q1   Bucket = "Q1"
	Q2   Bucket = "Q2"
	Q3   Bucket = "Q3"
	Q4   Bucket = "Q4"
	S1   Bucket = "S1"
	S2   Bucket = "S2"
)

// Months lists the English month names in calendar order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var ordinals = func() map[string]int {
	m := make(map[string]int, len(Months))
	for i, name := range Months {
		m[strings.ToLower(name)] = i + 1
	}
	return m
}()

var bucketMonths = map[Bucket][]string{
	Q1: {"january", "february", "march"},
	Q2: {"april", "may", "june"},
	Q3: {"july", "august", "september"},
	Q4: {"october", "november", "december"},
	S1: {"january", "february", "march", "april", "may", "june"},
	S2: {"july", "august", "september", "october", "november", "december"},
}

// ParseBucket reads a selector from user input, ignoring case and
// surrounding space. Unrecognised input is kept as-is and later acts as
// identity.
func ParseBucket(s string) Bucket {
	s = strings.TrimSpace(s)
	switch b := Bucket(strings.ToUpper(s)); b {
	case Q1, Q2, Q3, Q4, S1, S2:
		return b
	}
	switch b := Bucket(strings.ToLower(s)); b {
	case All, Year:
		return b
	}
	return Bucket(s)
}

// Ordinal returns 1..12 for a month name, or 0 when the name is not a month.
func Ordinal(month string) int {
	return ordinals[normalize(month)]
}

// NameOf returns the English name for a time.Month.
func NameOf(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return Months[m-1]
}

// MonthsIn returns the lower-cased month names a bucket covers. Identity
// buckets and unknown selectors report ok=false.
func MonthsIn(b Bucket) ([]string, bool) {
	months, ok := bucketMonths[b]
	return months, ok
}

// Contains reports whether month falls in bucket b. Identity and unknown
// selectors contain every month.
func Contains(b Bucket, month string) bool {
	months, ok := bucketMonths[b]
	if !ok {
		return true
	}
	m := normalize(month)
	for _, candidate := range months {
		if candidate == m {
			return true
		}
	}
	return false
}

// Filter keeps the items whose month falls in bucket b. It never fails:
// all, year and any unknown selector return items unchanged.
func Filter[T any](items []T, b Bucket, month func(T) string) []T {
	if _, ok := bucketMonths[b]; !ok {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if Contains(b, month(item)) {
			out = append(out, item)
		}
	}
	return out
}

func normalize(month string) string {
	return strings.ToLower(strings.TrimSpace(month))
}

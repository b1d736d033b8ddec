package period

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type row struct {
	name  string
	month string
}

func monthOf(r row) string { return r.month }

func names(rows []row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.name)
	}
	return out
}

func TestFilter_Semester(t *testing.T) {
	rows := []row{{"jan", "January"}, {"apr", "April"}, {"jul", "July"}, {"oct", "October"}}

	require.Equal(t, []string{"jan", "apr"}, names(Filter(rows, S1, monthOf)))
	require.Equal(t, []string{"jul", "oct"}, names(Filter(rows, S2, monthOf)))
}

func TestFilter_IdentitySelectors(t *testing.T) {
	rows := []row{{"jan", "January"}, {"apr", "April"}, {"jul", "July"}, {"oct", "October"}}

	for _, b := range []Bucket{All, Year, "bogus", ""} {
		require.Equal(t, rows, Filter(rows, b, monthOf), "bucket %q", b)
	}
}

func TestFilter_QuartersAreCaseInsensitiveAndTrimmed(t *testing.T) {
	rows := []row{{"a", "  MARCH "}, {"b", "april"}, {"c", "Sept"}, {"d", "december"}}

	require.Equal(t, []string{"a"}, names(Filter(rows, Q1, monthOf)))
	require.Equal(t, []string{"b"}, names(Filter(rows, Q2, monthOf)))
	require.Empty(t, Filter(rows, Q3, monthOf))
	require.Equal(t, []string{"d"}, names(Filter(rows, Q4, monthOf)))
}

func TestOrdinal(t *testing.T) {
	require.Equal(t, 1, Ordinal("January"))
	require.Equal(t, 12, Ordinal(" december"))
	require.Equal(t, 0, Ordinal("Smarch"))
}

func TestSortByMonth(t *testing.T) {
	rows := []row{{"x", "Smarch"}, {"mar", "March"}, {"jan1", "January"}, {"dec", "December"}, {"jan2", "january"}}

	require.Equal(t, []string{"jan1", "jan2", "mar", "dec", "x"}, names(SortByMonth(rows, Asc, monthOf)))
	require.Equal(t, []string{"dec", "mar", "jan1", "jan2", "x"}, names(SortByMonth(rows, Desc, monthOf)))
	require.Equal(t, names(rows), names(SortByMonth(rows, None, monthOf)))
	require.Equal(t, "x", rows[0].name, "input must not be reordered")
}

func TestParseOrder(t *testing.T) {
	require.Equal(t, Desc, ParseOrder("DESC", Asc))
	require.Equal(t, Asc, ParseOrder("", Asc))
	require.Equal(t, None, ParseOrder("none", Asc))
}

func TestParseBucket(t *testing.T) {
	require.Equal(t, Q3, ParseBucket(" q3 "))
	require.Equal(t, S1, ParseBucket("s1"))
	require.Equal(t, All, ParseBucket("ALL"))
	require.Equal(t, Bucket("bogus"), ParseBucket("bogus"))
	require.Equal(t, Bucket(""), ParseBucket(""))
}

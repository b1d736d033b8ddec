package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/ganot/accomplish/internal/domain/activity"
)

// WriteCSV writes the header line and one line per activity. Every value is
// double-quoted with inner quotes doubled; lines are joined by "\n" with no
// trailing newline.
func WriteCSV(w io.Writer, acts []activity.Activity) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(Headers, ","))
	for _, a := range acts {
		bw.WriteByte('\n')
		for i, v := range Strings(a) {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.WriteString(quote(v))
		}
	}
	return bw.Flush()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Package report renders ranking results for files, terminals and JSON
// consumers.
package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/pscicluna/obsplan/internal/backup"
)

// TimeLayout is ISO-8601 in UTC with millisecond precision and no zone
// suffix.
const TimeLayout = "2006-01-02T15:04:05.000"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// WriteBackups writes one tab-separated line per score, in ranked order.
func WriteBackups(w io.Writer, scores []backup.Score) error {
	bw := bufio.NewWriter(w)
	for _, s := range scores {
		if _, err := fmt.Fprintf(bw, "%s\tbest_airmass=%.3f\tfrac_good=%.2f\tbest_time=%s\n",
			s.Target.Name, s.BestAirmass, s.FracGood, FormatTime(s.BestTime)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

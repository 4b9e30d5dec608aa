// Package streak computes how many consecutive calendar days, ending today,
// a user has written a journal entry.
package streak

import (
	"time"

	"github.com/dmitrijs2005/dailyjournal/internal/common"
)

// Window is the lookback window in days. The dashboard only loads this many
// recent dates, so a longer run of entries still reports Window.
const Window = 30

// Calculate counts consecutive days with an entry, scanning backward from
// today for at most Window days and stopping at the first missing day.
// Order and duplicates in dates do not matter; only calendar days are compared.
func Calculate(today time.Time, dates []time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		seen[common.DateOf(d)] = struct{}{}
	}

	day := common.DateOf(today)
	streak := 0
	for offset := 0; offset < Window; offset++ {
		if _, ok := seen[day.AddDate(0, 0, -offset)]; !ok {
			break
		}
		streak++
	}
	return streak
}

package models

// DashboardStats is derived on every dashboard request and never stored.
type DashboardStats struct {
	TotalEntries   int64
	Streak         int
	TodayCompleted bool
	// TodayEntry is set when TodayCompleted is true.
	TodayEntry *Entry
}

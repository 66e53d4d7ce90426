package models

// HistoryStats aggregates everything known about one command
type HistoryStats struct {
	Previous *History // previous entry in the same session, nil if none
	Next     *History // next entry in the same session, nil if none

	Total           int64 // invocations of the exact command text
	AverageDuration int64 // nanoseconds

	Exits            []ExitCount
	DayOfWeek        []DayCount
	DurationOverTime []MonthDuration
}

// ExitCount is the number of invocations that ended with Exit
type ExitCount struct {
	Exit  int64
	Count int64
}

// DayCount is the number of invocations on a weekday, 0 = Sunday
type DayCount struct {
	Day   int
	Count int64
}

// MonthDuration is the rounded average duration for one calendar month.
// Month is formatted YYYY-MM-01 so it sorts and parses as a date.
type MonthDuration struct {
	Month    string
	Duration int64
}

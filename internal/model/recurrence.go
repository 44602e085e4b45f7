package model

import "time"

type RecurrencePattern string

const (
	RecurrenceDaily   RecurrencePattern = "daily"
	RecurrenceWeekly  RecurrencePattern = "weekly"
	RecurrenceMonthly RecurrencePattern = "monthly"
	RecurrenceYearly  RecurrencePattern = "yearly"
)

func (p RecurrencePattern) IsValid() bool {
	switch p {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	default:
		return false
	}
}

// Next returns the due date that follows from under this pattern.
// Interval values below 1 are treated as 1.
func (p RecurrencePattern) Next(from time.Time, interval int) time.Time {
	if interval < 1 {
		interval = 1
	}
	switch p {
	case RecurrenceDaily:
		return from.AddDate(0, 0, interval)
	case RecurrenceWeekly:
		return from.AddDate(0, 0, 7*interval)
	case RecurrenceMonthly:
		return from.AddDate(0, interval, 0)
	case RecurrenceYearly:
		return from.AddDate(interval, 0, 0)
	default:
		return from
	}
}

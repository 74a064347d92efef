package utils

import (
	"log"
	"time"
)

const DateLayout = "2006-01-02"

// TimeNowTaipei returns the current time in the exchange's timezone.
func TimeNowTaipei() time.Time {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// TradeDate truncates a time to its calendar date, keeping the location.
func TradeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two times fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

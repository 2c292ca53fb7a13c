package timecalc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Tiliavir/timeclock/internal/model"
)

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHoursMinutes formats d as "7h 5m", the form used for the daily total.
func FormatHoursMinutes(d time.Duration) string {
	seconds := int64(d / time.Second)
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}

// FormatClock formats t as HH:MM, or "--:--" for the zero instant.
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.Format("15:04")
}

// ParseTimeOfDay parses "HH:MM" with 0<=HH<=23 and 0<=MM<=59. Single-digit
// fields ("9:5") are accepted.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, model.ErrEmptyInput
	}
	hs, ms, ok := strings.Cut(s, ":")
	if !ok || !isClockField(hs) || !isClockField(ms) {
		return 0, 0, model.ErrInvalidTimeFormat
	}
	hour, herr := strconv.Atoi(hs)
	minute, merr := strconv.Atoi(ms)
	if herr != nil || merr != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, model.ErrInvalidTimeFormat
	}
	return hour, minute, nil
}

func isClockField(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// At returns hour:minute on the calendar day of day, in day's location.
func At(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// ParseWorkdayLength accepts either decimal hours ("7.5") or "hh:mm" ("07:30").
func ParseWorkdayLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, model.ErrEmptyInput
	}
	if strings.Contains(s, ":") {
		h, m, err := ParseTimeOfDay(s)
		if err != nil {
			return 0, err
		}
		hours := float64(h) + float64(m)/60
		if hours <= 0 {
			return 0, model.ErrInvalidWorkdayLength
		}
		return hours, nil
	}
	hours, err := strconv.ParseFloat(s, 64)
	if err != nil || !ValidWorkdayHours(hours) {
		return 0, model.ErrInvalidWorkdayLength
	}
	return hours, nil
}

// ValidWorkdayHours reports whether hours is a finite positive number.
func ValidWorkdayHours(hours float64) bool {
	return hours > 0 && !math.IsInf(hours, 0) && !math.IsNaN(hours)
}

// FormatWorkdayLength renders hours as "hh:mm" (7.2 → "07:12"), rounded to
// the nearest minute.
func FormatWorkdayLength(hours float64) string {
	total := int(math.Round(hours * 60))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// Midnight returns the start of the next day (midnight) in the same location.
func Midnight(t time.Time) time.Time {
	return StartOfDay(t.AddDate(0, 0, 1))
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package service

import (
	"strings"
	"time"

	"github.com/IT-Nick/veritasbot/internal/domain/model"
)

// Availability состояние теста для студента на текущий момент
type Availability string

const (
	AvailabilityAvailable        Availability = "available"
	AvailabilityAlreadySubmitted Availability = "already_submitted"
	AvailabilityNotStarted       Availability = "not_started"
	AvailabilityExpired          Availability = "expired"
	AvailabilityUnavailable      Availability = "unavailable"
)

const DisplayLayout = "02.01.2006 15:04"

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var spacedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp разбирает время теста. Строки с "T" или "Z" читаются как ISO 8601,
// "YYYY-MM-DD HH:MM[:SS]" считается временем в UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	layouts := spacedLayouts
	if strings.ContainsAny(raw, "TZ") {
		layouts = isoLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsTestAvailable true, если оба времени разобраны и start <= now <= end
func IsTestAvailable(test model.Test, now time.Time) bool {
	start, okStart := ParseTimestamp(test.StartTime)
	end, okEnd := ParseTimestamp(test.EndTime)
	if !okStart || !okEnd {
		return false
	}
	return !now.Before(start) && !now.After(end)
}

// TestAvailability определяет статус кнопки запуска теста
func TestAvailability(test model.Test, now time.Time, alreadySubmitted bool) Availability {
	if alreadySubmitted {
		return AvailabilityAlreadySubmitted
	}
	if IsTestAvailable(test, now) {
		return AvailabilityAvailable
	}
	if start, ok := ParseTimestamp(test.StartTime); ok && now.Before(start) {
		return AvailabilityNotStarted
	}
	if end, ok := ParseTimestamp(test.EndTime); ok && now.After(end) {
		return AvailabilityExpired
	}
	return AvailabilityUnavailable
}

// FormatDisplayDate форматирует время как "ДД.ММ.ГГГГ ЧЧ:ММ" в loc, "—" если разобрать не удалось
func FormatDisplayDate(raw string, loc *time.Location) string {
	t, ok := ParseTimestamp(raw)
	if !ok {
		return "—"
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DisplayLayout)
}

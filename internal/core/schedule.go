package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// DaysOfWeek are the weekdays the studio operates, in grid order.
var DaysOfWeek = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta"}

// dayWindows holds the configured business hours for one weekday.
// End hours are exclusive; a zero afternoon window means mornings only.
type dayWindows struct {
	start, end                   int
	afternoonStart, afternoonEnd int
}

// businessHours is the studio's hand-configured weekly availability.
var businessHours = map[string]dayWindows{
	"Segunda": {start: 7, end: 12, afternoonStart: 16, afternoonEnd: 20},
	"Terça":   {start: 7, end: 12, afternoonStart: 15, afternoonEnd: 20},
	"Quarta":  {start: 7, end: 12, afternoonStart: 16, afternoonEnd: 20},
	"Quinta":  {start: 7, end: 12, afternoonStart: 15, afternoonEnd: 20},
	"Sexta":   {start: 7, end: 12, afternoonStart: 16, afternoonEnd: 20},
}

// GridTimes returns every slot shown on the agenda grid, bookable or not.
func GridTimes() []string {
	times := make([]string, 0, 14)
	for h := 7; h <= 20; h++ {
		times = append(times, FormatHour(h))
	}
	return times
}

// IsClassTime reports whether hour falls inside either of the day's
// configured windows. Unknown days have no windows.
func IsClassTime(day string, hour int) bool {
	w, ok := businessHours[day]
	if !ok {
		return false
	}
	if hour >= w.start && hour < w.end {
		return true
	}
	return w.afternoonStart > 0 && hour >= w.afternoonStart && hour < w.afternoonEnd
}

// AvailableTimes enumerates the bookable hour slots for a day, sorted
// ascending. Unknown days return nil.
func AvailableTimes(day string) []string {
	w, ok := businessHours[day]
	if !ok {
		return nil
	}
	var times []string
	for h := w.start; h < w.end; h++ {
		times = append(times, FormatHour(h))
	}
	if w.afternoonStart > 0 {
		for h := w.afternoonStart; h < w.afternoonEnd; h++ {
			times = append(times, FormatHour(h))
		}
	}
	sort.Strings(times)
	return times
}

// ParseHour converts a "HH:00" slot label back to its hour.
func ParseHour(t string) (int, error) {
	hh, _, ok := strings.Cut(t, ":")
	if !ok {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	return h, nil
}

// FormatHour renders an hour as the zero-padded slot label, e.g. "08:00".
func FormatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// ValidateSlot checks that (day, time) is a bookable business-hours slot.
func ValidateSlot(day, t string) error {
	hour, err := ParseHour(t)
	if err != nil {
		return ErrSlotUnavailable
	}
	if !IsClassTime(day, hour) {
		return ErrSlotUnavailable
	}
	return nil
}

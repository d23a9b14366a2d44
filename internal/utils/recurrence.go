package utils

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// IsActive reports whether a habit with the given frequency is tracked on date.
// Empty day sets and unknown frequency types are never active.
func IsActive(freq models.Frequency, date time.Time) bool {
	switch freq.Type {
	case models.FrequencyDaily:
		return true
	case models.FrequencyWeekly:
		name := models.WeekDayOf(date.Weekday())
		for _, d := range freq.Days {
			if d == name {
				return true
			}
		}
		return false
	case models.FrequencyCustom:
		num := int(date.Weekday())
		for _, d := range freq.CustomDays {
			if d == num {
				return true
			}
		}
		return false
	default:
		return false
	}
}

var dayMap = map[string]time.Weekday{
	"sun":       time.Sunday,
	"sunday":    time.Sunday,
	"mon":       time.Monday,
	"monday":    time.Monday,
	"tue":       time.Tuesday,
	"tuesday":   time.Tuesday,
	"wed":       time.Wednesday,
	"wednesday": time.Wednesday,
	"thu":       time.Thursday,
	"thursday":  time.Thursday,
	"fri":       time.Friday,
	"friday":    time.Friday,
	"sat":       time.Saturday,
	"saturday":  time.Saturday,
}

// ParseWeekDays parses a comma-separated list of weekday names ("mon,wed,fri")
// into WeekDay values. Duplicates are dropped. An empty string yields an empty set.
func ParseWeekDays(s string) ([]models.WeekDay, error) {
	var days []models.WeekDay
	seen := make(map[models.WeekDay]bool)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		wd, ok := dayMap[part]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		name := models.WeekDayOf(wd)
		if !seen[name] {
			seen[name] = true
			days = append(days, name)
		}
	}

	return days, nil
}

// ParseCustomDays parses a comma-separated list of day numbers (0=Sunday..6=Saturday)
// or weekday names. The result is sorted.
func ParseCustomDays(s string) ([]int, error) {
	var days []int
	seen := make(map[int]bool)

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		num, err := strconv.Atoi(part)
		if wd, ok := dayMap[strings.ToLower(part)]; ok {
			num, err = int(wd), nil
		}
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid day number: %s (expected 0-6, 0=Sunday)", part)
		}
		if !seen[num] {
			seen[num] = true
			days = append(days, num)
		}
	}
	sort.Ints(days)

	return days, nil
}

// FormatFrequency formats a frequency rule into a human-readable string
func FormatFrequency(freq models.Frequency) string {
	switch freq.Type {
	case models.FrequencyDaily:
		return "daily"
	case models.FrequencyWeekly:
		if len(freq.Days) == 0 {
			return "weekly (no days)"
		}
		days := make([]string, len(freq.Days))
		for i, d := range freq.Days {
			days[i] = string(d)
		}
		return fmt.Sprintf("weekly on %s", strings.Join(days, ","))
	case models.FrequencyCustom:
		if len(freq.CustomDays) == 0 {
			return "custom (no days)"
		}
		days := make([]string, len(freq.CustomDays))
		for i, d := range freq.CustomDays {
			days[i] = string(models.WeekDayOf(time.Weekday(d)))
		}
		return fmt.Sprintf("custom: %s", strings.Join(days, ","))
	default:
		return "unknown"
	}
}

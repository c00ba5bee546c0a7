package main

import (
	"fmt"
	"strings"
)

const (
	allDayText     = "Світло буде весь день."
	outagePrefix   = "Світла не буде: "
	rangeSeparator = ", "
	messageLabel   = "Графік на завтра"

	// FallbackText is published whenever extraction fails for any reason
	FallbackText = messageLabel + ": дані недоступні / перевір пізніше."
)

// FormatMinutes renders minutes of day as HH:MM. 1440 wraps to 00:00.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", (m/minutesPerHour)%hoursPerDay, m%minutesPerHour)
}

// FormatSchedule renders the schedule as a single human-readable sentence
func FormatSchedule(s BlackoutSchedule) string {
	if len(s) == 0 {
		return allDayText
	}

	parts := make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, FormatMinutes(r.Start)+"–"+FormatMinutes(r.End))
	}
	return outagePrefix + strings.Join(parts, rangeSeparator)
}

// ComposeMessage prefixes the schedule text with the label and optional date
func ComposeMessage(dateLabel, scheduleText string) string {
	prefix := messageLabel
	if dateLabel != "" {
		prefix += fmt.Sprintf(" (%s)", dateLabel)
	}
	return prefix + ": " + scheduleText
}

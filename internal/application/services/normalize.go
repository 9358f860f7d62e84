package services

import (
	"regexp"

	"github.com/hvqdigital/agenda-console/backend/internal/domain/entities"
	"github.com/hvqdigital/agenda-console/backend/pkg/utils"
)

// datePrefixPattern matches the calendar-date fragment the remote store keeps
// attached to time-of-day values, e.g. "2024-03-01 08:00" or
// "2024-03-01T08:00:00". The date is irrelevant to scheduling but must survive
// edits verbatim.
var datePrefixPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})([T ])`)

// normalizeCandidate prepares an edit candidate for persistence.
// Day fields collapse the legacy array-of-one to a single code; time fields
// are re-attached to the record's stored date fragment; everything else passes
// through unchanged.
func normalizeCandidate(field entities.EditableField, candidate any, record entities.Agenda) any {
	switch field {
	case entities.FieldWeekDays:
		return collapseDayCode(candidate)
	case entities.FieldStartTime:
		return mergeTimeOfDay(record.StartTime, asString(candidate))
	case entities.FieldEndTime:
		return mergeTimeOfDay(record.EndTime, asString(candidate))
	}
	return candidate
}

// collapseDayCode reduces any historical day representation to one code.
func collapseDayCode(candidate any) string {
	switch v := candidate.(type) {
	case []any:
		if len(v) == 0 {
			return ""
		}
		return utils.Stringify(v[0])
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	case []int:
		if len(v) == 0 {
			return ""
		}
		return utils.Stringify(v[0])
	}
	return asString(candidate)
}

// mergeTimeOfDay replaces only the time-of-day in a stored value, preserving
// the stored date fragment and separator exactly.
func mergeTimeOfDay(stored, timeOfDay string) string {
	if match := datePrefixPattern.FindStringSubmatch(stored); match != nil {
		return match[1] + match[2] + timeOfDay
	}
	return timeOfDay
}

func asString(value any) string {
	return utils.Stringify(value)
}

package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	StatusToDo       = "to_do"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

const MaxTaskTitleLength = 200

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	// DueDate and StartDate carry calendar dates only,
	// DueTime is a 24-hour "HH:MM" local time of day.
	DueDate   *time.Time
	DueTime   *string
	StartDate *time.Time
	Priority  string
	Status    string
	Resolved  bool
	EmailSent bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

func ValidStatus(status string) bool {
	switch status {
	case StatusToDo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseClockTime parses a "HH:MM" 24-hour time of day.
func ParseClockTime(value string) (hour, minute int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", value)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", value, err)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", value, err)
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", value)
	}
	return hour, minute, nil
}

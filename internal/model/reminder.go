package model

import (
	"fmt"
	"time"
)

// Priority ranks a reminder for delivery.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities are the allowed priority levels.
var ValidPriorities = map[Priority]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// Reminder is a one-shot scheduling instruction for the notification channel.
type Reminder struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	ScheduledTime time.Time `json:"scheduled_time"`
	Message       string    `json:"message"`
	Repeating     bool      `json:"repeating"`
	Priority      Priority  `json:"priority"`
}

// ReminderID derives the identifier of the reminder for kind at t.
func ReminderID(kind Kind, t time.Time) string {
	return fmt.Sprintf("%s-%d", kind, t.Unix())
}

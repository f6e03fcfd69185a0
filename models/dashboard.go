package models

import "time"

// ScheduleItem is a daily schedule entry shown on the dashboard
type ScheduleItem struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"-" db:"user_id"`
	TimeLabel string    `json:"time" db:"time_label"` // e.g. "8:00 AM"
	Activity  string    `json:"activity" db:"activity"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Alert is a dashboard notification; dismissed alerts stay in history
type Alert struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"-" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	Urgency   string    `json:"urgency" db:"urgency"` // low | medium | high
	Dismissed bool      `json:"dismissed" db:"dismissed"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// HealthMetric is a single recorded reading (heart rate, blood pressure, ...)
type HealthMetric struct {
	ID         int       `json:"id" db:"id"`
	UserID     int       `json:"-" db:"user_id"`
	Label      string    `json:"label" db:"label"`
	Value      string    `json:"value" db:"value"`
	Status     string    `json:"status" db:"status"` // normal | attention | alert
	RecordedAt time.Time `json:"recordedAt" db:"recorded_at"`
}

// CreateScheduleItemRequest represents POST /api/dashboard/schedule
type CreateScheduleItemRequest struct {
	Time     string `json:"time"`
	Activity string `json:"activity"`
}

// CreateAlertRequest represents POST /api/dashboard/alerts
type CreateAlertRequest struct {
	Message string `json:"message"`
	Urgency string `json:"urgency"`
}

// RecordMetricRequest represents POST /api/dashboard/metrics
type RecordMetricRequest struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Status string `json:"status"`
}

var AlertUrgencies = map[string]bool{
	"low":    true,
	"medium": true,
	"high":   true,
}

var MetricStatuses = map[string]bool{
	"normal":    true,
	"attention": true,
	"alert":     true,
}

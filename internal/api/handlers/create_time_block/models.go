package create_time_block

import "time"

// CreateTimeBlockRequest HTTP request model
type CreateTimeBlockRequest struct {
	StartAt time.Time `json:"startAt"` // RFC 3339
	EndAt   time.Time `json:"endAt"`
	Reason  string    `json:"reason"`
}

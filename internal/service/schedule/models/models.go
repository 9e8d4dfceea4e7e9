package models

import (
	"time"

	"github.com/m04kA/SMC-SalonService/internal/domain"
)

// ScheduleRuleRequest правило расписания на один день недели
type ScheduleRuleRequest struct {
	Weekday   int     `json:"weekday"`             // 0 = воскресенье ... 6 = суббота
	StartTime *string `json:"startTime,omitempty"` // "09:00" или "09:00:00"
	EndTime   *string `json:"endTime,omitempty"`
}

// ReplaceScheduleRequest запрос на полную замену расписания мастера
type ReplaceScheduleRequest struct {
	UserID int64                 `json:"userId"`
	Rules  []ScheduleRuleRequest `json:"rules"`
}

// CreateTimeBlockRequest запрос на создание блокировки
type CreateTimeBlockRequest struct {
	UserID     int64     `json:"userId"`
	EmployeeID int64     `json:"employeeId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Reason     string    `json:"reason"`
}

// ScheduleRuleResponse правило расписания
type ScheduleRuleResponse struct {
	ID            int64   `json:"id"`
	Weekday       int     `json:"weekday"`
	StartTime     *string `json:"startTime"` // "09:00:00", null для выходного
	EndTime       *string `json:"endTime"`
	EffectiveFrom string  `json:"effectiveFrom"` // "2024-01-07"
	EffectiveTo   *string `json:"effectiveTo,omitempty"`
}

// ScheduleResponse расписание мастера
type ScheduleResponse struct {
	EmployeeID int64                  `json:"employeeId"`
	Rules      []ScheduleRuleResponse `json:"rules"`
}

// TimeBlockResponse блокировка времени мастера
type TimeBlockResponse struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeId"`
	SalonID    int64     `json:"salonId"`
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TimeBlockListResponse список блокировок
type TimeBlockListResponse struct {
	TimeBlocks []TimeBlockResponse `json:"timeBlocks"`
}

// FromDomainSchedule конвертирует правила в DTO
func FromDomainSchedule(employeeID int64, rules []*domain.WeeklyAvailabilityRule) *ScheduleResponse {
	resp := &ScheduleResponse{
		EmployeeID: employeeID,
		Rules:      make([]ScheduleRuleResponse, 0, len(rules)),
	}

	for _, r := range rules {
		item := ScheduleRuleResponse{
			ID:            r.ID,
			Weekday:       r.Weekday,
			EffectiveFrom: r.EffectiveFrom.Format(domain.DateFormat),
		}
		if r.StartTime.Valid {
			s := r.StartTime.TimeString.ISO()
			item.StartTime = &s
		}
		if r.EndTime.Valid {
			s := r.EndTime.TimeString.ISO()
			item.EndTime = &s
		}
		if r.EffectiveTo != nil {
			s := r.EffectiveTo.Format(domain.DateFormat)
			item.EffectiveTo = &s
		}
		resp.Rules = append(resp.Rules, item)
	}

	return resp
}

// FromDomainTimeBlock конвертирует блокировку в DTO
func FromDomainTimeBlock(b *domain.TimeBlock) *TimeBlockResponse {
	return &TimeBlockResponse{
		ID:         b.ID,
		EmployeeID: b.EmployeeID,
		SalonID:    b.SalonID,
		StartAt:    b.StartAt,
		EndAt:      b.EndAt,
		Reason:     b.Reason,
		CreatedAt:  b.CreatedAt,
	}
}

// FromDomainTimeBlockList конвертирует список блокировок в DTO
func FromDomainTimeBlockList(blocks []*domain.TimeBlock) *TimeBlockListResponse {
	resp := &TimeBlockListResponse{TimeBlocks: make([]TimeBlockResponse, 0, len(blocks))}
	for _, b := range blocks {
		resp.TimeBlocks = append(resp.TimeBlocks, *FromDomainTimeBlock(b))
	}
	return resp
}

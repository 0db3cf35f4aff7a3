package entities

import "time"

// CorrectionEvent - одна выполненная (или неудавшаяся) коррекция зазора,
// сохраняемая в БД для истории.
type CorrectionEvent struct {
	ID        string    `gorm:"primaryKey;not null" json:"id"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
	Side      string    `gorm:"not null" json:"side"`    // left / right
	Action    string    `gorm:"not null" json:"action"`  // left_plus / left_minus / right_plus / right_minus
	Steps     int       `json:"steps"`                   // количество шагов
	Outcome   string    `gorm:"not null" json:"outcome"` // executed / failed
	Manual    bool      `json:"manual"`                  // ручной шаг оператора
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

// PerformanceLog is an append-only record of time spent by a user on a
// task. Rows are only ever created, never updated.
type PerformanceLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	TaskID     uint      `gorm:"not null;index" json:"task_id"`
	TimeSpent  int       `gorm:"not null" json:"time_spent"` // minutes
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`

	// Relationships. The user cascade is declared on the hasMany side;
	// the task relation has no hasMany counterpart, so it lives here.
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Task *Task `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"task,omitempty"`
}

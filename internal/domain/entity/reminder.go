package entity

import "time"

// Reminder is a persisted request to deliver a message at a future instant.
// Date may legitimately be in the past when loaded back after downtime;
// that is a delivery trigger, not an error.
type Reminder struct {
	ID                    uint      `gorm:"primaryKey;autoIncrement"`
	Date                  time.Time `gorm:"column:date;index"`
	Notes                 string    `gorm:"column:notes;type:text"`
	Remind15MinutesBefore bool      `gorm:"column:remind_15_minutes_before"`
	ChannelID             string    `gorm:"column:channel_id"`
	MsgID                 string    `gorm:"column:msg_id"` // confirmation message, written back after sending
}

// TableName specifies the table name for the Reminder entity.
func (Reminder) TableName() string {
	return "reminders"
}

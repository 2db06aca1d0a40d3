package dto

// AddReminderRequest is the DTO for creating and scheduling a reminder.
type AddReminderRequest struct {
	RequesterID    string `json:"requester_id"`
	RawTimestamp   string `json:"raw_timestamp"`
	Notes          string `json:"notes"`
	ChannelID      string `json:"channel_id"`
	AdvanceWarning bool   `json:"advance_warning"`
}

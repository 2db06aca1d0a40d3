package entity

// TLDer links a chat-platform user to their configured timezone.
type TLDer struct {
	ID         uint   `gorm:"primaryKey;autoIncrement"`
	UserID     string `gorm:"column:user_id;uniqueIndex"`
	Name       string `gorm:"column:name"`
	TimezoneID uint   `gorm:"column:timezone_id"`
}

// TableName specifies the table name for the TLDer entity.
func (TLDer) TableName() string {
	return "tlders"
}

// Timezone is a TZ database identifier shared between TLDers.
type Timezone struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"column:name;uniqueIndex"`
}

// TableName specifies the table name for the Timezone entity.
func (Timezone) TableName() string {
	return "timezones"
}

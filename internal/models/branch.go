package models

import "time"

type Branch struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Location string `gorm:"size:255;not null" json:"location"`
	Category string `gorm:"size:50;default:'General';index" json:"category"`

	AdminID *uint `gorm:"index" json:"admin_id"`
	Admin   *User `gorm:"foreignKey:AdminID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"admin,omitempty"`

	// Working hours as time-of-day strings ("HH:MM" or "HH:MM:SS").
	OpeningTime  string `gorm:"size:8;default:'09:00'" json:"opening_time"`
	ClosingTime  string `gorm:"size:8;default:'17:00'" json:"closing_time"`
	SlotDuration *int   `gorm:"default:15" json:"slot_duration"`
	Timezone     string `gorm:"size:64" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package model

import "time"

// Room is a bookable hotel room.
type Room struct {
	ID          int64  `gorm:"primaryKey"`
	Description string `gorm:"size:256;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *Room) EntityID() int64      { return r.ID }
func (r *Room) SetEntityID(id int64) { r.ID = id }

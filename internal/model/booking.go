package model

import (
	"time"

	"gorm.io/gorm"
)

// Booking reserves a room for a customer over an inclusive range of days.
// RoomID stays nil until a room has been allocated.
type Booking struct {
	ID         int64     `gorm:"primaryKey"`
	StartDate  time.Time `gorm:"not null;index"`
	EndDate    time.Time `gorm:"not null;index"`
	IsActive   bool      `gorm:"not null;default:false"`
	CustomerID int64     `gorm:"index;not null"`
	RoomID     *int64    `gorm:"index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Associations
	Customer Customer `gorm:"constraint:OnDelete:CASCADE"`
	Room     *Room    `gorm:"constraint:OnDelete:SET NULL"`
}

func (b *Booking) EntityID() int64      { return b.ID }
func (b *Booking) SetEntityID(id int64) { b.ID = id }

// HasRoom reports whether the booking has been assigned to the given room.
func (b *Booking) HasRoom(roomID int64) bool {
	return b.RoomID != nil && *b.RoomID == roomID
}

// AfterFind puts the dates back in UTC. Drivers may hand timestamps back in
// the server's local zone, which would shift the calendar day.
func (b *Booking) AfterFind(tx *gorm.DB) error {
	b.StartDate = b.StartDate.UTC()
	b.EndDate = b.EndDate.UTC()
	return nil
}

package model

import "time"

// Customer is the guest a booking is made for.
type Customer struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:256;not null"`
	Email     string `gorm:"size:256"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Associations
	Subscriptions []PushSubscription `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

func (c *Customer) EntityID() int64      { return c.ID }
func (c *Customer) SetEntityID(id int64) { c.ID = id }

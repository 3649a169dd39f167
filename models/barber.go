package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Barber struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name         string     `gorm:"not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Specialties  StringList `gorm:"type:jsonb" json:"specialties"`
	Rating       float64    `json:"rating"`
	Availability StringList `gorm:"type:jsonb" json:"availability"`
	IsActive     bool       `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
}

func (b *Barber) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

func (b Barber) Clone() Barber {
	out := b
	out.Specialties = b.Specialties.Clone()
	out.Availability = b.Availability.Clone()
	return out
}

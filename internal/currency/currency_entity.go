package currency

import "time"

type Currency struct {
	Code      string `gorm:"type:varchar(3);primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Symbol    string `gorm:"size:10"`
	IsActive  bool   `gorm:"not null;default:true"`
	IsDeleted bool   `gorm:"not null;default:false"`
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

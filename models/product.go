package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName    string         `gorm:"not null" json:"product_name"`
	Description    string         `json:"description"`
	Price          float64        `gorm:"not null" json:"price"`
	Discount       int            `gorm:"default:0" json:"discount"` // percent, 0-100
	Unit           string         `json:"unit"`                      // e.g. "kg", "bundle", "piece"
	Images         []string       `gorm:"serializer:json" json:"images"`
	TotalUnits     int            `gorm:"not null;default:0" json:"total_units"`
	RemainingUnits int            `gorm:"not null;default:0" json:"remaining_units"`
	SoldUnits      int            `gorm:"not null;default:0" json:"sold_units"`
	Categories     []Category     `gorm:"many2many:product_categories;" json:"categories"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// FinalPrice is the price after discount, rounded to 2 decimal places.
func (p *Product) FinalPrice() float64 {
	if p.Discount <= 0 {
		return p.Price
	}
	price := decimal.NewFromFloat(p.Price)
	factor := decimal.NewFromInt(int64(100 - p.Discount)).Div(decimal.NewFromInt(100))
	f, _ := price.Mul(factor).Round(2).Float64()
	return f
}

// OldPrice is the struck-through list price; zero when no discount applies.
func (p *Product) OldPrice() float64 {
	if p.Discount <= 0 {
		return 0
	}
	return p.Price
}

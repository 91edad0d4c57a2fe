package models

import "time"

type User struct {
	ID        string    `gorm:"primaryKey" json:"id"` // subject claim from the identity provider
	Email     string    `gorm:"index" json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   Address   `gorm:"embedded" json:"address"`
	Cart      Cart      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders    []Order   `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Address fields embedded in User; used to prefill the checkout form.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
}

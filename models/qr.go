package models

import (
	"time"

	"gorm.io/gorm"
)

// QRFile is the store's payment QR image. At most one row is active;
// uploading a new file soft-deletes the previous one.
type QRFile struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	FileName  string         `json:"file_name" gorm:"not null"`
	FileURL   string         `json:"file_url" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func ActiveQRFile(db *gorm.DB) (*QRFile, error) {
	var file QRFile
	if err := db.Order("created_at DESC").First(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

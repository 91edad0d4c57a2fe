package qrcontroller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Comfortablydumbb/grocery-Project/apperrors"
	"github.com/Comfortablydumbb/grocery-Project/models"
)

var unsafeChars = regexp.MustCompile(`[^\w\d\-_\.]`)

// HandleQRFileUpload stores the payment QR image and records it as the
// active one. The previous file, if any, is retired.
func HandleQRFileUpload(db *gorm.DB, uploadDir string, publicBaseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			apperrors.Respond(c, apperrors.InvalidInput("no file uploaded"))
			return
		}

		cleanName := unsafeChars.ReplaceAllString(file.Filename, "_")
		filename := fmt.Sprintf("%d_%s", time.Now().Unix(), cleanName)

		if err := os.MkdirAll(uploadDir, 0755); err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		dst := filepath.Join(uploadDir, filename)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		fileURL := publicBaseURL + "/uploads/qr/" + filename

		var saved models.QRFile
		txErr := db.Transaction(func(tx *gorm.DB) error {
			// Retire any previous QR so only one is ever active.
			if err := tx.Where("1 = 1").Delete(&models.QRFile{}).Error; err != nil {
				return err
			}
			saved = models.QRFile{FileName: filename, FileURL: fileURL}
			return tx.Create(&saved).Error
		})
		if txErr != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(txErr))
			return
		}

		log.Printf("📁 Payment QR updated: %s", filename)
		c.JSON(http.StatusCreated, saved)
	}
}

// GetActiveQRHandler returns the QR the customer should scan to pay.
func GetActiveQRHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		qr, err := models.ActiveQRFile(db)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("no payment QR configured"))
				return
			}
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		c.JSON(http.StatusOK, qr)
	}
}

// DeleteQRFileHandler removes the active QR record and its file.
func DeleteQRFileHandler(db *gorm.DB, uploadDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		qr, err := models.ActiveQRFile(db)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperrors.Respond(c, apperrors.NotFound("no payment QR configured"))
				return
			}
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		filePath := filepath.Join(uploadDir, qr.FileName)
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}
		if err := db.Delete(qr).Error; err != nil {
			apperrors.Respond(c, apperrors.StoreUnavailable(err))
			return
		}

		log.Printf("🗑️ Payment QR deleted: %s", qr.FileName)
		c.JSON(http.StatusOK, gin.H{"message": "QR file deleted"})
	}
}

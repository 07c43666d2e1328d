// internal/services/media_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/models"
	"github.com/shopkit/catalog-backend/internal/utils"
)

var videoMimeTypes = []string{
	"video/mp4",
	"video/quicktime",
	"video/x-msvideo",
	"video/x-flv",
	"video/webm",
}

type MediaService struct {
	db      *gorm.DB
	storage *StorageService
}

type UploadMediaRequest struct {
	ProductID *uuid.UUID
	IsPrimary bool
}

func NewMediaService(db *gorm.DB, storage *StorageService) *MediaService {
	return &MediaService{
		db:      db,
		storage: storage,
	}
}

func (s *MediaService) UploadImage(file multipart.File, header *multipart.FileHeader, req *UploadMediaRequest) (*models.Media, error) {
	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, errors.New("only image files are allowed")
	}

	if err := s.storage.ValidateImage(file); err != nil {
		return nil, err
	}

	return s.upload(file, header, models.MediaTypeImage, s.storage.GetDefaultUploadOptions("images"), req)
}

func (s *MediaService) UploadVideo(file multipart.File, header *multipart.FileHeader, req *UploadMediaRequest) (*models.Media, error) {
	mimeType := header.Header.Get("Content-Type")
	allowed := false
	for _, t := range videoMimeTypes {
		if mimeType == t {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errors.New("only video files are allowed")
	}

	return s.upload(file, header, models.MediaTypeVideo, s.storage.GetDefaultUploadOptions("videos"), req)
}

func (s *MediaService) upload(file multipart.File, header *multipart.FileHeader, mediaType models.MediaType, options UploadOptions, req *UploadMediaRequest) (*models.Media, error) {
	if req.ProductID != nil {
		var product models.Product
		if err := s.db.First(&product, "id = ?", *req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("product not found")
			}
			return nil, fmt.Errorf("database error: %w", err)
		}
	}

	result, err := s.storage.UploadFile(file, header, options)
	if err != nil {
		return nil, err
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	name := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))

	media := &models.Media{
		URL:       result.URL,
		FileName:  name,
		Extension: ext,
		MimeType:  result.MimeType,
		Disk:      s.storage.Driver(),
		Path:      result.Key,
		Size:      result.Size,
		Type:      mediaType,
		ProductID: req.ProductID,
	}

	// Creating the row and claiming the primary flag commit together,
	// so a request marking a fresh upload primary can never leave two
	// primary rows behind.
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(media).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.New("media with this url already exists")
			}
			return fmt.Errorf("failed to create media record: %w", err)
		}

		if req.IsPrimary && req.ProductID != nil {
			return s.setPrimaryTx(tx, media)
		}

		return nil
	})
	if err != nil {
		// The row never existed; drop the stored blob so the store does
		// not accumulate orphans.
		if delErr := s.storage.DeleteFile(result.Key); delErr != nil {
			logrus.WithError(delErr).WithField("key", result.Key).
				Warn("Failed to remove blob after aborted upload")
		}
		return nil, err
	}

	return media, nil
}

func (s *MediaService) GetMedia(id uuid.UUID) (*models.Media, error) {
	var media models.Media
	if err := s.db.First(&media, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("media not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &media, nil
}

// DownloadURL returns a fetchable URL for the media item. Local-disk
// media are served publicly at their stored URL; s3-disk media get a
// short-lived presigned URL.
func (s *MediaService) DownloadURL(id uuid.UUID) (string, error) {
	media, err := s.GetMedia(id)
	if err != nil {
		return "", err
	}

	if media.Disk == "s3" {
		return s.storage.GeneratePresignedURL(media.Path, 15*time.Minute)
	}

	return media.URL, nil
}

func (s *MediaService) GetProductMedia(productID uuid.UUID) ([]models.Media, error) {
	var media []models.Media
	if err := s.db.Where("product_id = ?", productID).
		Order("is_primary DESC, created_at ASC").
		Find(&media).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch product media: %w", err)
	}
	return media, nil
}

// SetPrimary makes the given media row the product's single primary
// item. Unsetting the competitors and setting the target happen in one
// transaction; repeating the call for the current primary is a no-op
// that still runs the same pass.
func (s *MediaService) SetPrimary(id uuid.UUID) (*models.Media, error) {
	media, err := s.GetMedia(id)
	if err != nil {
		return nil, err
	}

	if media.ProductID == nil {
		return nil, errors.New("cannot set primary without product association")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.setPrimaryTx(tx, media)
	})
	if err != nil {
		return nil, err
	}

	return media, nil
}

func (s *MediaService) setPrimaryTx(tx *gorm.DB, media *models.Media) error {
	if media.ProductID == nil {
		return errors.New("cannot set primary without product association")
	}

	if err := tx.Model(&models.Media{}).
		Where("product_id = ? AND id <> ?", *media.ProductID, media.ID).
		Update("is_primary", false).Error; err != nil {
		return fmt.Errorf("failed to unset previous primary media: %w", err)
	}

	if err := tx.Model(media).Update("is_primary", true).Error; err != nil {
		return fmt.Errorf("failed to set primary media: %w", err)
	}
	media.IsPrimary = true

	return nil
}

// DeleteMedia removes the stored blob best-effort before deleting the
// row. A blob-store failure is logged and never blocks the deletion.
func (s *MediaService) DeleteMedia(id uuid.UUID) error {
	media, err := s.GetMedia(id)
	if err != nil {
		return err
	}

	if media.Path != "" {
		if err := s.storage.DeleteFile(media.Path); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"media_id": media.ID,
				"path":     media.Path,
				"disk":     media.Disk,
			}).Warn("Failed to delete media blob")
		}
	}

	if err := s.db.Delete(media).Error; err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}

	return nil
}

func (s *MediaService) GetMediaList(params utils.PaginationParams, productID *uuid.UUID) ([]models.Media, int64, error) {
	query := s.db.Model(&models.Media{})

	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count media: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "size", "file_name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var media []models.Media
	if err := query.Find(&media).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch media: %w", err)
	}

	return media, total, nil
}

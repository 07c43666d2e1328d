// internal/services/media_service_test.go
package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/config"
	"github.com/shopkit/catalog-backend/internal/models"
)

// memFile adapts an in-memory buffer to multipart.File.
type memFile struct {
	*bytes.Reader
}

func (f *memFile) Close() error { return nil }

func newUpload(name, contentType string, data []byte) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: name,
		Size:     int64(len(data)),
		Header:   textproto.MIMEHeader{},
	}
	header.Header.Set("Content-Type", contentType)
	return &memFile{bytes.NewReader(data)}, header
}

// pngBytes carries a valid PNG signature so uploads pass the magic-byte
// check.
func pngBytes() []byte {
	return append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0}, 64)...)
}

type MediaServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	uploadDir string
	svc       *MediaService
}

func (suite *MediaServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.uploadDir = suite.T().TempDir()

	cfg := &config.Config{
		Environment: "test",
		Storage: config.StorageConfig{
			Driver:    "local",
			LocalPath: suite.uploadDir,
			BaseURL:   "http://localhost:8080/uploads",
		},
	}
	storage, err := NewStorageService(cfg)
	suite.Require().NoError(err)

	suite.svc = NewMediaService(suite.db, storage)
}

func (suite *MediaServiceTestSuite) createProduct(name string) *models.Product {
	product := &models.Product{Name: name, Slug: name, Price: 1, IsActive: true}
	suite.Require().NoError(suite.db.Create(product).Error)
	return product
}

func (suite *MediaServiceTestSuite) createMedia(productID *uuid.UUID, primary bool) *models.Media {
	media := &models.Media{
		URL:       fmt.Sprintf("http://localhost:8080/uploads/%s.png", uuid.NewString()),
		FileName:  "test",
		Extension: "png",
		MimeType:  "image/png",
		Disk:      "local",
		Type:      models.MediaTypeImage,
		ProductID: productID,
		IsPrimary: primary,
	}
	suite.Require().NoError(suite.db.Create(media).Error)
	return media
}

func (suite *MediaServiceTestSuite) primaryCount(productID uuid.UUID) int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Media{}).
		Where("product_id = ? AND is_primary = ?", productID, true).
		Count(&count).Error)
	return count
}

func (suite *MediaServiceTestSuite) TestSetPrimaryHandsOff() {
	product := suite.createProduct("widget")
	a := suite.createMedia(&product.ID, true)
	b := suite.createMedia(&product.ID, false)

	updated, err := suite.svc.SetPrimary(b.ID)
	suite.Require().NoError(err)
	suite.True(updated.IsPrimary)

	var reloadedA models.Media
	suite.Require().NoError(suite.db.First(&reloadedA, "id = ?", a.ID).Error)
	suite.False(reloadedA.IsPrimary)

	suite.Equal(int64(1), suite.primaryCount(product.ID))
}

func (suite *MediaServiceTestSuite) TestSetPrimaryIsIdempotent() {
	product := suite.createProduct("widget")
	a := suite.createMedia(&product.ID, false)

	_, err := suite.svc.SetPrimary(a.ID)
	suite.Require().NoError(err)
	_, err = suite.svc.SetPrimary(a.ID)
	suite.Require().NoError(err)

	suite.Equal(int64(1), suite.primaryCount(product.ID))
}

func (suite *MediaServiceTestSuite) TestSetPrimaryRequiresProductAssociation() {
	product := suite.createProduct("widget")
	existing := suite.createMedia(&product.ID, true)
	orphan := suite.createMedia(nil, false)

	_, err := suite.svc.SetPrimary(orphan.ID)
	suite.Require().Error(err)
	suite.Equal("cannot set primary without product association", err.Error())

	// Nothing changed anywhere.
	var reloadedOrphan, reloadedExisting models.Media
	suite.Require().NoError(suite.db.First(&reloadedOrphan, "id = ?", orphan.ID).Error)
	suite.Require().NoError(suite.db.First(&reloadedExisting, "id = ?", existing.ID).Error)
	suite.False(reloadedOrphan.IsPrimary)
	suite.True(reloadedExisting.IsPrimary)
}

func (suite *MediaServiceTestSuite) TestSetPrimaryScopedToProduct() {
	p1 := suite.createProduct("widget")
	p2 := suite.createProduct("gadget")
	suite.createMedia(&p1.ID, true)
	other := suite.createMedia(&p2.ID, true)
	target := suite.createMedia(&p1.ID, false)

	_, err := suite.svc.SetPrimary(target.ID)
	suite.Require().NoError(err)

	// The other product's primary is untouched.
	var reloaded models.Media
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", other.ID).Error)
	suite.True(reloaded.IsPrimary)
	suite.Equal(int64(1), suite.primaryCount(p1.ID))
	suite.Equal(int64(1), suite.primaryCount(p2.ID))
}

func (suite *MediaServiceTestSuite) TestSetPrimaryNotFound() {
	_, err := suite.svc.SetPrimary(uuid.New())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "not found")
}

func (suite *MediaServiceTestSuite) TestUploadImageStoresBlobAndRow() {
	product := suite.createProduct("widget")
	file, header := newUpload("cover.png", "image/png", pngBytes())

	media, err := suite.svc.UploadImage(file, header, &UploadMediaRequest{ProductID: &product.ID})
	suite.Require().NoError(err)
	suite.Equal(models.MediaTypeImage, media.Type)
	suite.Equal("local", media.Disk)
	suite.Equal("png", media.Extension)
	suite.False(media.IsPrimary)

	_, err = os.Stat(filepath.Join(suite.uploadDir, media.Path))
	suite.Require().NoError(err)
}

func (suite *MediaServiceTestSuite) TestUploadImagePrimaryDisplacesExisting() {
	product := suite.createProduct("widget")
	old := suite.createMedia(&product.ID, true)

	file, header := newUpload("cover.png", "image/png", pngBytes())
	media, err := suite.svc.UploadImage(file, header, &UploadMediaRequest{
		ProductID: &product.ID,
		IsPrimary: true,
	})
	suite.Require().NoError(err)
	suite.True(media.IsPrimary)

	var reloaded models.Media
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", old.ID).Error)
	suite.False(reloaded.IsPrimary)
	suite.Equal(int64(1), suite.primaryCount(product.ID))
}

func (suite *MediaServiceTestSuite) TestUploadImageRejectsNonImage() {
	file, header := newUpload("notes.txt", "text/plain", []byte("hello"))

	_, err := suite.svc.UploadImage(file, header, &UploadMediaRequest{})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "only image files are allowed")
}

func (suite *MediaServiceTestSuite) TestUploadImageRejectsForgedContentType() {
	file, header := newUpload("fake.png", "image/png", []byte("not a real image"))

	_, err := suite.svc.UploadImage(file, header, &UploadMediaRequest{})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "invalid image file")
}

func (suite *MediaServiceTestSuite) TestUploadImageUnknownProduct() {
	missing := uuid.New()
	file, header := newUpload("cover.png", "image/png", pngBytes())

	_, err := suite.svc.UploadImage(file, header, &UploadMediaRequest{ProductID: &missing})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "product not found")
}

func (suite *MediaServiceTestSuite) TestUploadVideoRejectsWrongMime() {
	file, header := newUpload("clip.mp4", "application/octet-stream", []byte("data"))

	_, err := suite.svc.UploadVideo(file, header, &UploadMediaRequest{})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "only video files are allowed")
}

func (suite *MediaServiceTestSuite) TestDeleteMediaRemovesRowAndBlob() {
	product := suite.createProduct("widget")
	file, header := newUpload("cover.png", "image/png", pngBytes())
	media, err := suite.svc.UploadImage(file, header, &UploadMediaRequest{ProductID: &product.ID})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.DeleteMedia(media.ID))

	_, err = suite.svc.GetMedia(media.ID)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "not found")

	_, err = os.Stat(filepath.Join(suite.uploadDir, media.Path))
	suite.True(os.IsNotExist(err))
}

func (suite *MediaServiceTestSuite) TestDeleteMediaFreesURL() {
	product := suite.createProduct("widget")
	original := suite.createMedia(&product.ID, false)

	suite.Require().NoError(suite.svc.DeleteMedia(original.ID))

	replacement := &models.Media{
		URL:      original.URL,
		FileName: "replacement",
		MimeType: "image/png",
		Disk:     "local",
		Type:     models.MediaTypeImage,
	}
	suite.Require().NoError(suite.db.Create(replacement).Error)
}

func (suite *MediaServiceTestSuite) TestGetProductMediaOrdersPrimaryFirst() {
	product := suite.createProduct("widget")
	suite.createMedia(&product.ID, false)
	primary := suite.createMedia(&product.ID, true)

	media, err := suite.svc.GetProductMedia(product.ID)
	suite.Require().NoError(err)
	suite.Require().Len(media, 2)
	suite.Equal(primary.ID, media[0].ID)
	suite.True(media[0].IsPrimary)
}

func (suite *MediaServiceTestSuite) TestDownloadURLLocalDisk() {
	product := suite.createProduct("widget")
	media := suite.createMedia(&product.ID, false)

	url, err := suite.svc.DownloadURL(media.ID)
	suite.Require().NoError(err)
	suite.Equal(media.URL, url)
}

func (suite *MediaServiceTestSuite) TestDownloadURLNotFound() {
	_, err := suite.svc.DownloadURL(uuid.New())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "not found")
}

func TestMediaServiceSuite(t *testing.T) {
	suite.Run(t, new(MediaServiceTestSuite))
}

// internal/services/product_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/models"
	"github.com/shopkit/catalog-backend/internal/utils"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db     *gorm.DB
	tagSvc *TagService
	svc    *ProductService
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.tagSvc = NewTagService(suite.db)
	suite.svc = NewProductService(suite.db, suite.tagSvc)
}

func (suite *ProductServiceTestSuite) tagIDSet(p *models.Product) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(p.Tags))
	for _, t := range p.Tags {
		set[t.ID] = true
	}
	return set
}

func (suite *ProductServiceTestSuite) TestCreateGeneratesSlug() {
	product, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:  "Deluxe Coffee Grinder",
		Price: 49.90,
	})
	suite.Require().NoError(err)
	suite.Equal("deluxe-coffee-grinder", product.Slug)
	suite.True(product.IsActive)
}

func (suite *ProductServiceTestSuite) TestCreateWithTagNamesCreatesAndLinks() {
	product, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:     "Mystery Novel",
		Price:    12.50,
		TagNames: []string{"Fiction", "Staff Pick"},
	})
	suite.Require().NoError(err)
	suite.Require().Len(product.Tags, 2)

	// The denormalized column mirrors the first resolved tag.
	var fiction models.Tag
	suite.Require().NoError(suite.db.Where("slug = ?", "fiction").First(&fiction).Error)
	suite.Require().NotNil(product.TagID)
	suite.Equal(fiction.ID, *product.TagID)
}

func (suite *ProductServiceTestSuite) TestCreateDuplicateSlugConflicts() {
	_, err := suite.svc.CreateProduct(&CreateProductRequest{Name: "Widget", Price: 1})
	suite.Require().NoError(err)

	_, err = suite.svc.CreateProduct(&CreateProductRequest{Name: "Widget", Price: 2})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "already exists")
}

func (suite *ProductServiceTestSuite) TestUpdateReplacesTagSetExactly() {
	a, err := suite.tagSvc.CreateTag("Alpha", "")
	suite.Require().NoError(err)
	b, err := suite.tagSvc.CreateTag("Beta", "")
	suite.Require().NoError(err)
	c, err := suite.tagSvc.CreateTag("Gamma", "")
	suite.Require().NoError(err)

	product, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:   "Widget",
		Price:  1,
		TagIDs: []uuid.UUID{a.ID, b.ID},
	})
	suite.Require().NoError(err)

	updated, err := suite.svc.UpdateProduct(product.ID, &UpdateProductRequest{
		TagIDs: []uuid.UUID{b.ID, c.ID},
	})
	suite.Require().NoError(err)

	set := suite.tagIDSet(updated)
	suite.Len(set, 2)
	suite.True(set[b.ID])
	suite.True(set[c.ID])
	suite.False(set[a.ID])

	suite.Require().NotNil(updated.TagID)
	suite.Equal(b.ID, *updated.TagID)
}

func (suite *ProductServiceTestSuite) TestUpdateWithoutTagsClearsAssociations() {
	product, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:     "Widget",
		Price:    1,
		TagNames: []string{"Sale"},
	})
	suite.Require().NoError(err)
	suite.Require().NotNil(product.TagID)

	desc := "updated"
	updated, err := suite.svc.UpdateProduct(product.ID, &UpdateProductRequest{
		Description: &desc,
	})
	suite.Require().NoError(err)
	suite.Empty(updated.Tags)
	suite.Nil(updated.TagID)
}

func (suite *ProductServiceTestSuite) TestUpdateUnknownTagRollsBack() {
	tag, err := suite.tagSvc.CreateTag("Sale", "")
	suite.Require().NoError(err)

	product, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:   "Widget",
		Price:  1,
		TagIDs: []uuid.UUID{tag.ID},
	})
	suite.Require().NoError(err)

	newName := "Renamed Widget"
	_, err = suite.svc.UpdateProduct(product.ID, &UpdateProductRequest{
		Name:   &newName,
		TagIDs: []uuid.UUID{tag.ID, uuid.New()},
	})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "tags not found")

	// The whole update rolled back: name, associations, and the
	// denormalized column are untouched.
	reloaded, err := suite.svc.GetProduct(product.ID)
	suite.Require().NoError(err)
	suite.Equal("Widget", reloaded.Name)
	suite.Require().Len(reloaded.Tags, 1)
	suite.Require().NotNil(reloaded.TagID)
	suite.Equal(tag.ID, *reloaded.TagID)
}

func (suite *ProductServiceTestSuite) TestUpdateRegeneratesSlugOnNameChange() {
	product, err := suite.svc.CreateProduct(&CreateProductRequest{Name: "Old Name", Price: 1})
	suite.Require().NoError(err)

	newName := "New Name"
	updated, err := suite.svc.UpdateProduct(product.ID, &UpdateProductRequest{Name: &newName})
	suite.Require().NoError(err)
	suite.Equal("new-name", updated.Slug)
}

func (suite *ProductServiceTestSuite) TestDeleteProductClearsTagLinks() {
	product, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:     "Widget",
		Price:    1,
		TagNames: []string{"Sale"},
	})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.DeleteProduct(product.ID))

	var joinRows int64
	suite.Require().NoError(suite.db.Table("product_tag").Count(&joinRows).Error)
	suite.Equal(int64(0), joinRows)

	_, err = suite.svc.GetProduct(product.ID)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "not found")

	// The tag itself survives the product.
	var tagCount int64
	suite.Require().NoError(suite.db.Model(&models.Tag{}).Count(&tagCount).Error)
	suite.Equal(int64(1), tagCount)
}

func (suite *ProductServiceTestSuite) TestDeleteProductFreesSlugAndSKU() {
	sku := "WID-001"
	original, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:  "Widget",
		Price: 1,
		SKU:   &sku,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.svc.DeleteProduct(original.ID))

	recreated, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:  "Widget",
		Price: 2,
		SKU:   &sku,
	})
	suite.Require().NoError(err)
	suite.NotEqual(original.ID, recreated.ID)
	suite.Equal("widget", recreated.Slug)
}

func (suite *ProductServiceTestSuite) TestSetSaleRequiresPrice() {
	product, err := suite.svc.CreateProduct(&CreateProductRequest{Name: "Widget", Price: 10})
	suite.Require().NoError(err)

	_, err = suite.svc.SetSale(product.ID, &SetSaleRequest{IsOnSale: true})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "sale price is required")
}

func (suite *ProductServiceTestSuite) TestSaleWindowValidation() {
	start := time.Now()
	end := start.Add(-time.Hour)

	_, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:          "Widget",
		Price:         10,
		SaleStartDate: &start,
		SaleEndDate:   &end,
	})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "sale end date")
}

func (suite *ProductServiceTestSuite) TestSearchOnSaleRespectsWindow() {
	now := time.Now()
	price := 5.0

	activeStart := now.Add(-time.Hour)
	activeEnd := now.Add(time.Hour)
	onSale := true
	_, err := suite.svc.CreateProduct(&CreateProductRequest{
		Name:          "Current Sale",
		Price:         10,
		IsOnSale:      &onSale,
		SalePrice:     &price,
		SaleStartDate: &activeStart,
		SaleEndDate:   &activeEnd,
	})
	suite.Require().NoError(err)

	expiredStart := now.Add(-48 * time.Hour)
	expiredEnd := now.Add(-24 * time.Hour)
	_, err = suite.svc.CreateProduct(&CreateProductRequest{
		Name:          "Expired Sale",
		Price:         10,
		IsOnSale:      &onSale,
		SalePrice:     &price,
		SaleStartDate: &expiredStart,
		SaleEndDate:   &expiredEnd,
	})
	suite.Require().NoError(err)

	filter := true
	results, total, err := suite.svc.SearchProducts(ProductSearchParams{
		PaginationParams: utils.PaginationParams{Page: 1, Limit: 15},
		OnSale:           &filter,
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(results, 1)
	suite.Equal("Current Sale", results[0].Name)
}

func (suite *ProductServiceTestSuite) TestUpdateStockRejectsNegative() {
	product, err := suite.svc.CreateProduct(&CreateProductRequest{Name: "Widget", Price: 1})
	suite.Require().NoError(err)

	_, err = suite.svc.UpdateStock(product.ID, -1)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "negative")
}

func (suite *ProductServiceTestSuite) TestToggleActive() {
	product, err := suite.svc.CreateProduct(&CreateProductRequest{Name: "Widget", Price: 1})
	suite.Require().NoError(err)
	suite.True(product.IsActive)

	toggled, err := suite.svc.ToggleActive(product.ID)
	suite.Require().NoError(err)
	suite.False(toggled.IsActive)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}

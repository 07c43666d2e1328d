// internal/handlers/product_handler_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopkit/catalog-backend/internal/models"
	"github.com/shopkit/catalog-backend/internal/services"
)

type ProductHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *ProductHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(
		&models.Category{},
		&models.Tag{},
		&models.Product{},
		&models.Media{},
	))
	suite.db = db

	tagService := services.NewTagService(db)
	productService := services.NewProductService(db, tagService)
	mediaService := services.NewMediaService(db, nil)

	productHandler := NewProductHandler(productService)
	mediaHandler := NewMediaHandler(mediaService)

	suite.router = gin.New()
	v1 := suite.router.Group("/v1")
	{
		products := v1.Group("/products")
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.POST("", productHandler.CreateProduct)
		products.PUT("/:id", productHandler.UpdateProduct)

		media := v1.Group("/media")
		media.POST("/:id/primary", mediaHandler.SetPrimary)
	}
}

func (suite *ProductHandlerTestSuite) request(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ProductHandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *ProductHandlerTestSuite) TestCreateProductWithTagNames() {
	w := suite.request("POST", "/v1/products", map[string]interface{}{
		"name":    "Mystery Novel",
		"price":   12.5,
		"tagName": []string{"Fiction", "Staff Pick"},
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	response := suite.decode(w)
	suite.True(response["success"].(bool))

	product := response["data"].(map[string]interface{})["product"].(map[string]interface{})
	suite.Equal("mystery-novel", product["slug"])
	suite.Len(product["tags"], 2)
	suite.NotNil(product["tag_id"])
}

func (suite *ProductHandlerTestSuite) TestCreateProductMissingName() {
	w := suite.request("POST", "/v1/products", map[string]interface{}{
		"price": 5,
	})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *ProductHandlerTestSuite) TestUpdateProductClearsTagsWhenOmitted() {
	created := suite.request("POST", "/v1/products", map[string]interface{}{
		"name":    "Widget",
		"price":   1,
		"tagName": []string{"Sale"},
	})
	suite.Require().Equal(http.StatusCreated, created.Code)
	id := suite.decode(created)["data"].(map[string]interface{})["product"].(map[string]interface{})["id"].(string)

	w := suite.request("PUT", "/v1/products/"+id, map[string]interface{}{
		"description": "no more tags",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	product := suite.decode(w)["data"].(map[string]interface{})["product"].(map[string]interface{})
	suite.Empty(product["tags"])
	suite.Nil(product["tag_id"])
}

func (suite *ProductHandlerTestSuite) TestGetProductInvalidID() {
	w := suite.request("GET", "/v1/products/not-a-uuid", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ProductHandlerTestSuite) TestGetProductNotFound() {
	w := suite.request("GET", "/v1/products/"+uuid.NewString(), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ProductHandlerTestSuite) TestSetPrimaryWithoutProductIsUnprocessable() {
	media := &models.Media{
		URL:      "http://localhost:8080/uploads/orphan.png",
		FileName: "orphan",
		MimeType: "image/png",
		Disk:     "local",
		Type:     models.MediaTypeImage,
	}
	suite.Require().NoError(suite.db.Create(media).Error)

	w := suite.request("POST", "/v1/media/"+media.ID.String()+"/primary", nil)
	suite.Require().Equal(http.StatusUnprocessableEntity, w.Code)

	response := suite.decode(w)
	suite.False(response["success"].(bool))
	errObj := response["error"].(map[string]interface{})
	suite.Contains(errObj["message"], "cannot set primary without product association")
}

func TestProductHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProductHandlerTestSuite))
}

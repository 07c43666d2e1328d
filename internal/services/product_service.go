// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/models"
	"github.com/shopkit/catalog-backend/internal/utils"
)

type ProductService struct {
	db         *gorm.DB
	tagService *TagService
}

type CreateProductRequest struct {
	Name        string     `json:"name" validate:"required,max=255"`
	Slug        string     `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price" validate:"min=0"`
	SKU         *string    `json:"sku,omitempty" validate:"omitempty,max=50"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Stock       int        `json:"stock" validate:"min=0"`
	IsActive    *bool      `json:"is_active,omitempty"`
	IsFeatured  *bool      `json:"is_featured,omitempty"`
	IsOnSale    *bool      `json:"is_on_sale,omitempty"`

	SalePrice     *float64   `json:"sale_price,omitempty" validate:"omitempty,min=0"`
	SaleStartDate *time.Time `json:"sale_start_date,omitempty"`
	SaleEndDate   *time.Time `json:"sale_end_date,omitempty"`

	// Existing tag identifiers plus raw names; names are resolved to
	// rows, creating tags on first reference.
	TagIDs   []uuid.UUID `json:"tagId,omitempty"`
	TagNames []string    `json:"tagName,omitempty" validate:"omitempty,dive,max=50"`

	MetaTitle       string `json:"meta_title,omitempty" validate:"omitempty,max=255"`
	MetaDescription string `json:"meta_description,omitempty"`
	MetaKeywords    string `json:"meta_keywords,omitempty"`
}

type UpdateProductRequest struct {
	Name        *string    `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Slug        *string    `json:"slug,omitempty" validate:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,min=0"`
	SKU         *string    `json:"sku,omitempty" validate:"omitempty,max=50"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Stock       *int       `json:"stock,omitempty" validate:"omitempty,min=0"`
	IsActive    *bool      `json:"is_active,omitempty"`
	IsFeatured  *bool      `json:"is_featured,omitempty"`
	IsOnSale    *bool      `json:"is_on_sale,omitempty"`

	SalePrice     *float64   `json:"sale_price,omitempty" validate:"omitempty,min=0"`
	SaleStartDate *time.Time `json:"sale_start_date,omitempty"`
	SaleEndDate   *time.Time `json:"sale_end_date,omitempty"`

	TagIDs   []uuid.UUID `json:"tagId,omitempty"`
	TagNames []string    `json:"tagName,omitempty" validate:"omitempty,dive,max=50"`

	MetaTitle       *string `json:"meta_title,omitempty" validate:"omitempty,max=255"`
	MetaDescription *string `json:"meta_description,omitempty"`
	MetaKeywords    *string `json:"meta_keywords,omitempty"`
}

type SetSaleRequest struct {
	IsOnSale      bool       `json:"is_on_sale"`
	SalePrice     *float64   `json:"sale_price,omitempty" validate:"omitempty,min=0"`
	SaleStartDate *time.Time `json:"sale_start_date,omitempty"`
	SaleEndDate   *time.Time `json:"sale_end_date,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
	IsFeatured *bool      `json:"is_featured,omitempty"`
	OnSale     *bool      `json:"on_sale,omitempty"`
	InStock    *bool      `json:"in_stock,omitempty"`
}

func NewProductService(db *gorm.DB, tagService *TagService) *ProductService {
	return &ProductService{
		db:         db,
		tagService: tagService,
	}
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validateSaleWindow(req.SaleStartDate, req.SaleEndDate); err != nil {
		return nil, err
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Name)
	}

	product := &models.Product{
		Name:            req.Name,
		Slug:            slug,
		Description:     req.Description,
		Price:           req.Price,
		SKU:             req.SKU,
		CategoryID:      req.CategoryID,
		Stock:           req.Stock,
		SalePrice:       req.SalePrice,
		SaleStartDate:   req.SaleStartDate,
		SaleEndDate:     req.SaleEndDate,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}

	product.IsActive = req.IsActive == nil || *req.IsActive
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}
	if req.IsOnSale != nil {
		product.IsOnSale = *req.IsOnSale
	}

	// Row creation, tag resolution, and the denormalized tag_id update
	// commit or roll back as one unit.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.New("product with this slug or sku already exists")
			}
			return fmt.Errorf("failed to create product: %w", err)
		}

		target, err := s.tagService.ResolveTags(tx, req.TagIDs, req.TagNames)
		if err != nil {
			return err
		}

		return s.syncTags(tx, product, target)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Category").Preload("Tags").Preload("Media").First(product, "id = ?", product.ID)

	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Preload("Tags").Preload("Media").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := validateSaleWindow(req.SaleStartDate, req.SaleEndDate); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
		// Regenerate slug when the name changes and no slug was supplied
		if req.Slug == nil {
			updates["slug"] = utils.Slugify(*req.Name)
		}
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.IsOnSale != nil {
		updates["is_on_sale"] = *req.IsOnSale
	}
	if req.SalePrice != nil {
		updates["sale_price"] = *req.SalePrice
	}
	if req.SaleStartDate != nil {
		updates["sale_start_date"] = *req.SaleStartDate
	}
	if req.SaleEndDate != nil {
		updates["sale_end_date"] = *req.SaleEndDate
	}
	if req.MetaTitle != nil {
		updates["meta_title"] = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		updates["meta_description"] = *req.MetaDescription
	}
	if req.MetaKeywords != nil {
		updates["meta_keywords"] = *req.MetaKeywords
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errors.New("product with this slug or sku already exists")
				}
				return fmt.Errorf("failed to update product: %w", err)
			}
		}

		// The tag set always mirrors the request: omitted tag fields
		// clear the associations, matching the replace-exactly contract.
		target, err := s.tagService.ResolveTags(tx, req.TagIDs, req.TagNames)
		if err != nil {
			return err
		}

		return s.syncTags(tx, &product, target)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Category").Preload("Tags").Preload("Media").First(&product, "id = ?", id)

	return &product, nil
}

// DeleteProduct detaches tag associations as an explicit step before
// deleting the row, freeing its slug and sku for reuse. Media rows
// stay; they are independent entities with their own delete endpoint.
func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to detach tags: %w", err)
		}

		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		return nil
	})
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).
		Preload("Category").Preload("Tags").Preload("Media")

	// Apply filters
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.IsActive != nil {
		query = query.Where("is_active = ?", *params.IsActive)
	}

	if params.IsFeatured != nil {
		query = query.Where("is_featured = ?", *params.IsFeatured)
	}

	if params.OnSale != nil && *params.OnSale {
		now := time.Now()
		query = query.Where("is_on_sale = ?", true).
			Where("sale_price IS NOT NULL").
			Where("sale_start_date IS NULL OR sale_start_date <= ?", now).
			Where("sale_end_date IS NULL OR sale_end_date >= ?", now)
	}

	if params.InStock != nil && *params.InStock {
		query = query.Where("stock > 0")
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(sku) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "stock"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) UpdateStock(id uuid.UUID, stock int) (*models.Product, error) {
	if stock < 0 {
		return nil, errors.New("stock must not be negative")
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(product).Update("stock", stock).Error; err != nil {
		return nil, fmt.Errorf("failed to update stock: %w", err)
	}

	return product, nil
}

func (s *ProductService) ToggleActive(id uuid.UUID) (*models.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(product).Update("is_active", !product.IsActive).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle active status: %w", err)
	}

	return product, nil
}

func (s *ProductService) ToggleFeatured(id uuid.UUID) (*models.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(product).Update("is_featured", !product.IsFeatured).Error; err != nil {
		return nil, fmt.Errorf("failed to toggle featured status: %w", err)
	}

	return product, nil
}

func (s *ProductService) SetSale(id uuid.UUID, req *SetSaleRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.IsOnSale && req.SalePrice == nil {
		return nil, errors.New("sale price is required when enabling a sale")
	}

	if err := validateSaleWindow(req.SaleStartDate, req.SaleEndDate); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"is_on_sale":      req.IsOnSale,
		"sale_price":      req.SalePrice,
		"sale_start_date": req.SaleStartDate,
		"sale_end_date":   req.SaleEndDate,
	}

	if err := s.db.Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update sale information: %w", err)
	}

	return product, nil
}

// syncTags replaces the product's tag associations exactly with the
// target set and mirrors the first member into products.tag_id (null
// for an empty set). Must run inside the caller's transaction so no
// reader observes the association table and the scalar column out of
// step.
func (s *ProductService) syncTags(tx *gorm.DB, product *models.Product, target []uuid.UUID) error {
	if len(target) == 0 {
		if err := tx.Model(product).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to clear tag associations: %w", err)
		}
		if err := tx.Model(product).Update("tag_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear denormalized tag: %w", err)
		}
		product.TagID = nil
		return nil
	}

	var tags []models.Tag
	if err := tx.Where("id IN ?", target).Find(&tags).Error; err != nil {
		return fmt.Errorf("failed to load target tags: %w", err)
	}
	if len(tags) != len(target) {
		return errors.New("one or more tags not found")
	}

	if err := tx.Model(product).Association("Tags").Replace(&tags); err != nil {
		return fmt.Errorf("failed to sync tag associations: %w", err)
	}

	first := target[0]
	if err := tx.Model(product).Update("tag_id", first).Error; err != nil {
		return fmt.Errorf("failed to update denormalized tag: %w", err)
	}
	product.TagID = &first

	return nil
}

func validateSaleWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return errors.New("sale end date must not be before sale start date")
	}
	return nil
}

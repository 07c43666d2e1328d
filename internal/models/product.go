// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"size:255;not null"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;size:255;not null"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	SKU         *string `json:"sku" gorm:"column:sku;uniqueIndex;size:50"`
	Stock       int     `json:"stock" gorm:"default:0"`
	IsActive    bool    `json:"is_active" gorm:"default:true;index"`
	IsFeatured  bool    `json:"is_featured" gorm:"default:false;index"`
	IsOnSale    bool    `json:"is_on_sale" gorm:"default:false"`

	SalePrice     *float64   `json:"sale_price" gorm:"type:decimal(10,2)"`
	SaleStartDate *time.Time `json:"sale_start_date"`
	SaleEndDate   *time.Time `json:"sale_end_date"`

	// SEO fields
	MetaTitle       string `json:"meta_title" gorm:"size:255"`
	MetaDescription string `json:"meta_description" gorm:"type:text"`
	MetaKeywords    string `json:"meta_keywords" gorm:"type:text"`

	CategoryID *uuid.UUID `json:"category_id" gorm:"type:uuid;index"`

	// TagID mirrors one member of the Tags association for cheap reads.
	// It is only ever written inside the tag-sync transaction, so it
	// cannot disagree with the join table at commit boundaries.
	TagID *uuid.UUID `json:"tag_id" gorm:"type:uuid;index"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Tags     []Tag     `json:"tags,omitempty" gorm:"many2many:product_tag"`
	Media    []Media   `json:"media,omitempty" gorm:"foreignKey:ProductID"`
}

// OnSaleNow reports whether the sale price currently applies.
func (p *Product) OnSaleNow() bool {
	if !p.IsOnSale || p.SalePrice == nil {
		return false
	}

	now := time.Now()
	if p.SaleStartDate != nil && p.SaleStartDate.After(now) {
		return false
	}
	if p.SaleEndDate != nil && p.SaleEndDate.Before(now) {
		return false
	}
	return true
}

// CurrentPrice returns the sale price while a sale is running, the
// regular price otherwise.
func (p *Product) CurrentPrice() float64 {
	if p.OnSaleNow() {
		return *p.SalePrice
	}
	return p.Price
}

func (p *Product) InStock() bool {
	return p.Stock > 0
}

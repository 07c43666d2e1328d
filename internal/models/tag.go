// internal/models/tag.go
package models

type Tag struct {
	BaseModel
	Name        string `json:"name" gorm:"size:50;not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
	Description string `json:"description" gorm:"type:text"`

	Products []Product `json:"products,omitempty" gorm:"many2many:product_tag"`
}

// internal/models/media.go
package models

import "github.com/google/uuid"

type Media struct {
	BaseModel
	URL       string    `json:"url" gorm:"uniqueIndex;size:512;not null"`
	FileName  string    `json:"file_name" gorm:"size:255"`
	Extension string    `json:"extension" gorm:"size:16"`
	MimeType  string    `json:"mime_type" gorm:"size:100"`
	Disk      string    `json:"disk" gorm:"size:20"`
	Path      string    `json:"path" gorm:"size:512"`
	Size      int64     `json:"size"`
	Type      MediaType `json:"type" gorm:"type:varchar(10);default:'image'"`

	// ProductID is optional; unassociated media are exempt from the
	// single-primary invariant.
	ProductID *uuid.UUID `json:"product_id" gorm:"type:uuid;index"`
	IsPrimary bool       `json:"is_primary" gorm:"default:false"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

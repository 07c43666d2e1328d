// internal/models/book.go
package models

type Book struct {
	BaseModel
	Title           string `json:"title" gorm:"size:255;not null"`
	Author          string `json:"author" gorm:"size:255;not null"`
	PublicationYear int    `json:"publication_year" gorm:"not null"`
}

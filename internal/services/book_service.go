// internal/services/book_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/models"
	"github.com/shopkit/catalog-backend/internal/utils"
)

type BookService struct {
	db *gorm.DB
}

type CreateBookRequest struct {
	Title           string `json:"title" validate:"required,max=255"`
	Author          string `json:"author" validate:"required,max=255"`
	PublicationYear int    `json:"publication_year" validate:"required,min=1000,max=9999"`
}

type UpdateBookRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Author          *string `json:"author,omitempty" validate:"omitempty,min=1,max=255"`
	PublicationYear *int    `json:"publication_year,omitempty" validate:"omitempty,min=1000,max=9999"`
}

func NewBookService(db *gorm.DB) *BookService {
	return &BookService{db: db}
}

func (s *BookService) GetBooks(params utils.PaginationParams) ([]models.Book, int64, error) {
	query := s.db.Model(&models.Book{})

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "author", "publication_year"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var books []models.Book
	if err := query.Find(&books).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch books: %w", err)
	}

	return books, total, nil
}

func (s *BookService) GetBook(id uuid.UUID) (*models.Book, error) {
	var book models.Book
	if err := s.db.First(&book, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("book not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &book, nil
}

func (s *BookService) CreateBook(req *CreateBookRequest) (*models.Book, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	book := &models.Book{
		Title:           req.Title,
		Author:          req.Author,
		PublicationYear: req.PublicationYear,
	}

	if err := s.db.Create(book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return book, nil
}

func (s *BookService) UpdateBook(id uuid.UUID, req *UpdateBookRequest) (*models.Book, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	book, err := s.GetBook(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Author != nil {
		updates["author"] = *req.Author
	}
	if req.PublicationYear != nil {
		updates["publication_year"] = *req.PublicationYear
	}

	if len(updates) > 0 {
		if err := s.db.Model(book).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
	}

	return book, nil
}

func (s *BookService) DeleteBook(id uuid.UUID) error {
	book, err := s.GetBook(id)
	if err != nil {
		return err
	}

	if err := s.db.Delete(book).Error; err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	return nil
}

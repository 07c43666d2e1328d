// internal/services/book_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/utils"
)

type BookServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *BookService
}

func (suite *BookServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.svc = NewBookService(suite.db)
}

func (suite *BookServiceTestSuite) TestCreateAndGet() {
	book, err := suite.svc.CreateBook(&CreateBookRequest{
		Title:           "The Go Programming Language",
		Author:          "Donovan & Kernighan",
		PublicationYear: 2015,
	})
	suite.Require().NoError(err)

	fetched, err := suite.svc.GetBook(book.ID)
	suite.Require().NoError(err)
	suite.Equal(book.Title, fetched.Title)
	suite.Equal(2015, fetched.PublicationYear)
}

func (suite *BookServiceTestSuite) TestCreateRejectsBadYear() {
	_, err := suite.svc.CreateBook(&CreateBookRequest{
		Title:           "Fragment",
		Author:          "Unknown",
		PublicationYear: 99,
	})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "validation failed")
}

func (suite *BookServiceTestSuite) TestUpdatePartial() {
	book, err := suite.svc.CreateBook(&CreateBookRequest{
		Title:           "Old Title",
		Author:          "Author",
		PublicationYear: 2000,
	})
	suite.Require().NoError(err)

	newTitle := "New Title"
	updated, err := suite.svc.UpdateBook(book.ID, &UpdateBookRequest{Title: &newTitle})
	suite.Require().NoError(err)
	suite.Equal("New Title", updated.Title)
	suite.Equal("Author", updated.Author)
}

func (suite *BookServiceTestSuite) TestSearchByAuthor() {
	_, err := suite.svc.CreateBook(&CreateBookRequest{Title: "One", Author: "Ursula K. Le Guin", PublicationYear: 1969})
	suite.Require().NoError(err)
	_, err = suite.svc.CreateBook(&CreateBookRequest{Title: "Two", Author: "Someone Else", PublicationYear: 1990})
	suite.Require().NoError(err)

	books, total, err := suite.svc.GetBooks(utils.PaginationParams{Page: 1, Limit: 15, Search: "le guin"})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(books, 1)
	suite.Equal("One", books[0].Title)
}

func (suite *BookServiceTestSuite) TestDelete() {
	book, err := suite.svc.CreateBook(&CreateBookRequest{Title: "Gone", Author: "A", PublicationYear: 2020})
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.DeleteBook(book.ID))

	_, err = suite.svc.GetBook(book.ID)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "not found")
}

func (suite *BookServiceTestSuite) TestDeleteMissing() {
	err := suite.svc.DeleteBook(uuid.New())
	suite.Require().Error(err)
	suite.Contains(err.Error(), "not found")
}

func TestBookServiceSuite(t *testing.T) {
	suite.Run(t, new(BookServiceTestSuite))
}

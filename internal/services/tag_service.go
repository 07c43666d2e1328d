// internal/services/tag_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopkit/catalog-backend/internal/models"
	"github.com/shopkit/catalog-backend/internal/utils"
)

type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// ResolveTags turns caller-supplied tag IDs plus raw names into one
// deduplicated ID set, creating tag rows for names that have no
// matching slug yet. It runs on the caller's transaction handle so that
// tag creation and the product sync that follows commit together.
//
// Output order is deterministic: the supplied IDs in argument order,
// then resolved names in argument order. The synchronizer picks element
// zero as the product's denormalized tag.
func (s *TagService) ResolveTags(tx *gorm.DB, tagIDs []uuid.UUID, tagNames []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool, len(tagIDs)+len(tagNames))
	resolved := make([]uuid.UUID, 0, len(tagIDs)+len(tagNames))

	for _, id := range tagIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		resolved = append(resolved, id)
	}

	for _, name := range tagNames {
		tag, err := s.findOrCreateBySlug(tx, name)
		if err != nil {
			return nil, err
		}
		if tag == nil || seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		resolved = append(resolved, tag.ID)
	}

	return resolved, nil
}

// findOrCreateBySlug is idempotent by name: the same name always maps
// to the same row. A duplicate-key failure means a concurrent request
// created the slug between our lookup and insert; the loser retries by
// re-reading the now-existing row instead of surfacing the conflict.
func (s *TagService) findOrCreateBySlug(tx *gorm.DB, name string) (*models.Tag, error) {
	slug := utils.Slugify(name)
	if slug == "" {
		return nil, nil
	}

	var tag models.Tag
	err := tx.Where("slug = ?", slug).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	tag = models.Tag{Name: name, Slug: slug}
	if err := tx.Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			tag = models.Tag{}
			if err := tx.Where("slug = ?", slug).First(&tag).Error; err != nil {
				return nil, fmt.Errorf("failed to re-read tag after conflict: %w", err)
			}
			return &tag, nil
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	return &tag, nil
}

func (s *TagService) GetTags(params utils.PaginationParams) ([]models.Tag, int64, error) {
	query := s.db.Model(&models.Tag{})

	if params.Search != "" {
		query = query.Where("name LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tags: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "slug"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var tags []models.Tag
	if err := query.Find(&tags).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tags: %w", err)
	}

	return tags, total, nil
}

func (s *TagService) GetTag(id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("tag not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &tag, nil
}

// CreateTag resolves a tag by name, creating it on first reference.
// Calling it twice with the same name returns the same row.
func (s *TagService) CreateTag(name, description string) (*models.Tag, error) {
	if utils.Slugify(name) == "" {
		return nil, errors.New("tag name is required")
	}

	var tag *models.Tag
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		tag, err = s.findOrCreateBySlug(tx, name)
		if err != nil {
			return err
		}
		if description != "" && tag.Description != description {
			tag.Description = description
			if err := tx.Model(tag).Update("description", description).Error; err != nil {
				return fmt.Errorf("failed to update tag description: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

// DeleteTag detaches the tag from every product before removing the
// row, and clears any denormalized tag_id still pointing at it.
func (s *TagService) DeleteTag(id uuid.UUID) error {
	var tag models.Tag
	if err := s.db.First(&tag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("tag not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&tag).Association("Products").Clear(); err != nil {
			return fmt.Errorf("failed to detach tag from products: %w", err)
		}

		if err := tx.Model(&models.Product{}).
			Where("tag_id = ?", tag.ID).
			Update("tag_id", nil).Error; err != nil {
			return fmt.Errorf("failed to clear denormalized tag references: %w", err)
		}

		if err := tx.Delete(&tag).Error; err != nil {
			return fmt.Errorf("failed to delete tag: %w", err)
		}

		return nil
	})
}

package database

import (
	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubscriptionRepo struct {
	db *gorm.DB
}

func NewSubscriptionRepo(db *gorm.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db}
}

// Add inserts a follow row. Duplicates fail on the unique index.
func (r *SubscriptionRepo) Add(followerID, authorID uuid.UUID) error {
	return r.db.Create(&models.Subscription{FollowerID: followerID, AuthorID: authorID}).Error
}

// Remove deletes the follow row and reports whether one existed
func (r *SubscriptionRepo) Remove(followerID, authorID uuid.UUID) (bool, error) {
	res := r.db.Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Subscription{})
	return res.RowsAffected > 0, res.Error
}

// Exists reports whether the follower already follows the author
func (r *SubscriptionRepo) Exists(followerID, authorID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	return count > 0, err
}

// Authors returns the users the follower subscribes to, ordered by username
func (r *SubscriptionRepo) Authors(followerID uuid.UUID, limit, offset int) ([]*models.User, error) {
	q := r.db.Model(&models.User{}).
		Joins("JOIN subscriptions s ON s.author_id = users.id").
		Where("s.follower_id = ?", followerID).
		Order("users.username asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}

	var authors []*models.User
	err := q.Find(&authors).Error
	return authors, err
}

// Flags returns which of the given users the follower subscribes to
func (r *SubscriptionRepo) Flags(followerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	flags := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return flags, nil
	}

	var followed []uuid.UUID
	err := r.db.Model(&models.Subscription{}).
		Where("follower_id = ? AND author_id IN ?", followerID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return nil, err
	}
	for _, id := range followed {
		flags[id] = true
	}
	return flags, nil
}

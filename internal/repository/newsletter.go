package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// NewsletterRepository stores newsletter subscriptions.
type NewsletterRepository interface {
	Subscribe(ctx context.Context, email string) (*models.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	IsSubscribed(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	ListEmails(ctx context.Context) ([]string, error)
}

type newsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository creates a new newsletter repository.
func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Subscribe(ctx context.Context, email string) (*models.Subscriber, error) {
	sub := &models.Subscriber{Email: email}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewValidationError("Email already subscribed")
		}
		return nil, models.NewInternalError(err)
	}
	return sub, nil
}

func (r *newsletterRepository) Unsubscribe(ctx context.Context, email string) error {
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Delete(&models.Subscriber{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *newsletterRepository) IsSubscribed(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscriber{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *newsletterRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Subscriber{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *newsletterRepository) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.Subscriber{}).
		Order("created_at ASC").
		Pluck("email", &emails).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return emails, nil
}

package repository

import (
	"context"

	"futures-signal-bot/internal/model"

	"gorm.io/gorm"
)

type SubscriberRepository interface {
	GetByChatID(ctx context.Context, chatID int64) (*model.Subscriber, error)
	GetActive(ctx context.Context) ([]model.Subscriber, error)
	CountActive(ctx context.Context) (int64, error)
	Upsert(ctx context.Context, subscriber *model.Subscriber) error
	Deactivate(ctx context.Context, chatID int64) error
}

type subscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) GetByChatID(ctx context.Context, chatID int64) (*model.Subscriber, error) {
	var subscriber model.Subscriber
	result := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&subscriber)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &subscriber, nil
}

func (r *subscriberRepository) GetActive(ctx context.Context) ([]model.Subscriber, error) {
	var subscribers []model.Subscriber
	result := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&subscribers)
	if result.Error != nil {
		return nil, result.Error
	}
	return subscribers, nil
}

func (r *subscriberRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.Subscriber{}).Where("is_active = ?", true).Count(&count)
	return count, result.Error
}

func (r *subscriberRepository) Upsert(ctx context.Context, subscriber *model.Subscriber) error {
	existing, err := r.GetByChatID(ctx, subscriber.ChatID)
	if err != nil {
		return err
	}
	if existing == nil {
		return r.db.WithContext(ctx).Create(subscriber).Error
	}

	existing.ChatType = subscriber.ChatType
	existing.Title = subscriber.Title
	existing.IsActive = true
	return r.db.WithContext(ctx).Save(existing).Error
}

func (r *subscriberRepository) Deactivate(ctx context.Context, chatID int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Subscriber{}).
		Where("chat_id = ?", chatID).
		Update("is_active", false).Error
}

package repository

import (
	"context"

	"gorm.io/gorm"
)

func updateFields(ctx context.Context, db *gorm.DB, m interface{}, id string, fields map[string]interface{}) error {
	return db.WithContext(ctx).
		Model(m).
		Where("id = ?", id).
		Updates(fields).Error
}

func deleteByID(ctx context.Context, db *gorm.DB, m interface{}, id string) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(m).Error
}

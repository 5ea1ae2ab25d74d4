package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Read, Append and Overwrite are the table-level contract every entity table
// supports. Reads are ordered by primary key, which for auto-assigned keys is
// insertion order.

func Read[T any](ctx context.Context, db *gorm.DB) ([]T, error) {
	var rows []T
	err := db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: clause.PrimaryKey}}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func Append[T any](ctx context.Context, db *gorm.DB, rec *T) error {
	return db.WithContext(ctx).Create(rec).Error
}

// Overwrite replaces the whole table with rows inside one transaction.
func Overwrite[T any](ctx context.Context, db *gorm.DB, rows []T) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(new(T)).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 100).Error
	})
}

package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

// NextID hands out max(existing)+1 for column of model's table, 1 on an empty
// table. The allocation is recorded in id_sequences under name so two callers in
// concurrent transactions never receive the same id. Call it on a repo bound to
// the transaction that writes the row.
func (r *GormRepo) NextID(ctx context.Context, name string, model any, column string) (int64, error) {
	db := r.DB.WithContext(ctx)

	seq := models.IDSequence{Name: name}
	q := db
	if r.isPostgres() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Where("name = ?", name).First(&seq).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("read sequence %s: %w", name, err)
	}

	var maxID int64
	if err := db.Model(model).Select(fmt.Sprintf("COALESCE(MAX(%s), 0)", column)).Row().Scan(&maxID); err != nil {
		return 0, fmt.Errorf("max %s: %w", column, err)
	}

	next := max(seq.Value, maxID) + 1
	seq.Value = next
	if err := db.Save(&seq).Error; err != nil {
		return 0, fmt.Errorf("save sequence %s: %w", name, err)
	}
	return next, nil
}

func (r *GormRepo) NextOrderID(ctx context.Context) (int64, error) {
	return r.NextID(ctx, "orders", &models.Order{}, "order_id")
}

func (r *GormRepo) NextTransactionID(ctx context.Context) (int64, error) {
	return r.NextID(ctx, "transactions", &models.Transaction{}, "transaction_id")
}

package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

func (r *GormRepo) AppendOrderRow(ctx context.Context, row *models.Order) error {
	return Append(ctx, r.DB, row)
}

func (r *GormRepo) AppendTransaction(ctx context.Context, t *models.Transaction) error {
	return Append(ctx, r.DB, t)
}

func (r *GormRepo) AppendDeliveryStatus(ctx context.Context, d *models.DeliveryStatus) error {
	return Append(ctx, r.DB, d)
}

// OrdersByRetailer returns the retailer's order rows, newest order first.
func (r *GormRepo) OrdersByRetailer(ctx context.Context, email string) ([]models.Order, error) {
	var rows []models.Order
	err := r.DB.WithContext(ctx).
		Where("retailer_email = ?", email).
		Order("order_date DESC").Order("order_id DESC").Order("row_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) OrderRows(ctx context.Context, orderID int64, email string) ([]models.Order, error) {
	var rows []models.Order
	err := r.DB.WithContext(ctx).
		Where("order_id = ? AND retailer_email = ?", orderID, email).
		Order("row_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) TransactionsByRetailer(ctx context.Context, email string) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := r.DB.WithContext(ctx).
		Where("retailer_email = ?", email).
		Order("transaction_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) DeliveriesFor(ctx context.Context, orderIDs []int64) ([]models.DeliveryStatus, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var rows []models.DeliveryStatus
	err := r.DB.WithContext(ctx).
		Where("order_id IN ?", orderIDs).
		Order("order_id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) GetDeliveryStatus(ctx context.Context, orderID int64) (*models.DeliveryStatus, error) {
	var d models.DeliveryStatus
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// SetOrderStatus moves the delivery row and every order row of orderID to status.
func (r *GormRepo) SetOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus, at time.Time) error {
	db := r.DB.WithContext(ctx)
	res := db.Model(&models.DeliveryStatus{}).
		Where("order_id = ?", orderID).
		Updates(map[string]any{"status": status, "last_update": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return db.Model(&models.Order{}).Where("order_id = ?", orderID).Update("status", status).Error
}

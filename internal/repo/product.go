package repo

import (
	"context"
	"strings"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/retailer_portal/internal/models"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type ProductFilter struct {
	Search   string
	Category string
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if s := strings.TrimSpace(f.Search); s != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	var items []models.Product
	if err := q.Order("product_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Product
	if err := r.DB.WithContext(ctx).Where("product_id IN ?", ids).Order("product_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) Categories(ctx context.Context) ([]string, error) {
	var cats []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &cats).Error
	if err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Where("product_id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// UpsertProducts inserts new products and refreshes existing ones by ProductID.
func (r *GormRepo) UpsertProducts(ctx context.Context, items []models.Product) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "price", "supplier", "stock"}),
		}).
		CreateInBatches(items, 100).Error
}

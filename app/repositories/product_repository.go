package repositories

import (
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

// productListTTL bounds staleness of the cached catalogue listing.
const productListTTL = 5 * time.Minute

type ProductRepository struct{}

func NewProductRepository() *ProductRepository { return &ProductRepository{} }

func (r *ProductRepository) FindByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := orm.DB().Where("id = ?", id).First(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the given products in one query through q, so callers can
// resolve them inside a transaction. Missing IDs are simply absent from the
// result; callers decide whether that is an error.
func (r *ProductRepository) FindByIDs(q *orm.Query, ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	if err := q.Where("id IN ?", ids).Get(&products); err != nil {
		return nil, err
	}
	return products, nil
}

// List returns one page of the catalogue, newest first.
func (r *ProductRepository) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	var products []models.Product
	q := orm.DB().Model(&models.Product{}).Order("created_at DESC")
	p, err := q.GetWithPagination(&products, page, limit)
	return products, p, err
}

// ListCached serves the unpaginated catalogue through the cache, refreshed
// every productListTTL or when a write invalidates it.
func (r *ProductRepository) ListCached() ([]models.Product, error) {
	var products []models.Product
	err := orm.DB().Order("created_at DESC").Cache("products:all", productListTTL, &products)
	return products, err
}

func (r *ProductRepository) Create(product *models.Product) error {
	return orm.DB().Create(product)
}

func (r *ProductRepository) Save(product *models.Product) error {
	return orm.DB().Save(product)
}

// Delete bypasses the soft-delete scope; a product still referenced by
// order items fails the foreign key check instead of lingering as a ghost.
func (r *ProductRepository) Delete(product *models.Product) error {
	return orm.Tx(orm.DB().Gorm().Unscoped()).Delete(product)
}

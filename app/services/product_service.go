package services

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/pkg/apperr"
	"github.com/shashiranjanraj/bazaar/pkg/cache"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
	"github.com/shashiranjanraj/bazaar/pkg/storage"
)

type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService() *ProductService {
	return &ProductService{products: repositories.NewProductRepository()}
}

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Description string  `json:"description" validate:"nullable,max=5000"`
	Price       float64 `json:"price" validate:"required,numeric,gte=0"`
	Stock       int     `json:"stock" validate:"nullable,integer,gte=0"`
	SKU         string  `json:"sku" validate:"required,alpha_dash,max=100"`
	Category    string  `json:"category" validate:"nullable,max=100"`
}

func (s *ProductService) List(page, limit int) ([]models.Product, orm.Pagination, error) {
	products, p, err := s.products.List(page, limit)
	if err != nil {
		return nil, orm.Pagination{}, apperr.Internal("could not list products", err)
	}
	return products, p, nil
}

func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.products.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal("could not load product", err)
	}
	return product, nil
}

func (s *ProductService) Create(in ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		SKU:         strings.ToUpper(strings.TrimSpace(in.SKU)),
		Category:    in.Category,
	}
	if err := s.products.Create(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("a product with this SKU already exists")
		}
		return nil, apperr.Internal("could not create product", err)
	}

	s.invalidateListing()
	logger.Info("product created", "product_id", product.ID, "sku", product.SKU)
	return product, nil
}

func (s *ProductService) Update(id uint, in ProductInput) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Price = in.Price
	product.Stock = in.Stock
	product.SKU = strings.ToUpper(strings.TrimSpace(in.SKU))
	product.Category = in.Category

	if err := s.products.Save(product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("a product with this SKU already exists")
		}
		return nil, apperr.Internal("could not update product", err)
	}

	s.invalidateListing()
	return product, nil
}

func (s *ProductService) Delete(id uint) error {
	product, err := s.Get(id)
	if err != nil {
		return err
	}

	if err := s.products.Delete(product); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperr.Conflict("product is referenced by existing orders")
		}
		return apperr.Internal("could not delete product", err)
	}

	s.invalidateListing()
	logger.Info("product deleted", "product_id", id)
	return nil
}

// UploadImage stores an image on the configured disk under
// products/<id>/<name> and records the public URL on the product.
func (s *ProductService) UploadImage(id uint, filename string, r io.Reader) (*models.Product, error) {
	product, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return nil, apperr.Invalid("unsupported image type")
	}

	key := fmt.Sprintf("products/%d/image%s", id, ext)
	if err := storage.PutStream(key, r); err != nil {
		return nil, apperr.Internal("could not store image", err)
	}

	product.ImageURL = storage.URL(key)
	if err := s.products.Save(product); err != nil {
		return nil, apperr.Internal("could not update product", err)
	}

	s.invalidateListing()
	return product, nil
}

func (s *ProductService) invalidateListing() {
	if err := cache.Forget("products:all"); err != nil {
		logger.Warn("could not invalidate product cache", "error", err)
	}
}

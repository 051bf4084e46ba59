package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/bazaar/app/services"
	"github.com/shashiranjanraj/bazaar/pkg/bind"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// maxImageBytes caps product image uploads at 5 MiB.
const maxImageBytes = 5 << 20

type ProductController struct {
	products *services.ProductService
}

func NewProductController() *ProductController {
	return &ProductController{products: services.NewProductService()}
}

// Index handles GET /api/products with ?page= and ?limit=.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	products, pagination, err := c.products.List(page, limit)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Paginated(w, products, pagination)
}

// Show handles GET /api/products/{id}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := bind.UintParam(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := c.products.Get(id)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, product)
}

// Store handles POST /api/products (admin).
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Create(in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /api/products/{id} (admin).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := bind.UintParam(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Update(id, in)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, product)
}

// Destroy handles DELETE /api/products/{id} (admin).
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := bind.UintParam(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := c.products.Delete(id); err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, map[string]string{"message": "product deleted"})
}

// UploadImage handles POST /api/products/{id}/image (admin, multipart).
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := bind.UintParam(chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	product, err := c.products.UploadImage(id, header.Filename, file)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Success(w, product)
}

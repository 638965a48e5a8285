package http

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RegisterSwaggerDocs registers Swagger documentation routes
func RegisterSwaggerDocs(router *mux.Router) {
	RegisterSwaggerHandler(router, httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

// RegisterSwaggerHandler mounts an arbitrary Swagger UI handler under /swagger/
func RegisterSwaggerHandler(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// ListProducts godoc
// @Summary List all products
// @Description Get every product
// @Tags Products
// @Produce json
// @Success 200 {array} domain.Product
// @Failure 500 {object} ErrorResponse
// @Router /api/products [get]
func (h *ProductHandler) ListProductsDoc() {}

// GetProduct godoc
// @Summary Get product by ID
// @Description Get a specific product by its ID
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [get]
func (h *ProductHandler) GetProductDoc() {}

// CreateProduct godoc
// @Summary Create a new product
// @Description Create a product; the id is assigned by storage
// @Tags Products
// @Accept json
// @Produce json
// @Param request body productRequest true "Product data"
// @Success 201 {object} domain.Product
// @Header 201 {string} Location "URL of the created product"
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) CreateProductDoc() {}

// UpdateProduct godoc
// @Summary Replace a product
// @Description Overwrite every field of an existing product. The body id must equal the path id.
// @Tags Products
// @Accept json
// @Param id path int true "Product ID"
// @Param request body productRequest true "Product data"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [put]
func (h *ProductHandler) UpdateProductDoc() {}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Delete a product by ID
// @Tags Products
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/products/{id} [delete]
func (h *ProductHandler) DeleteProductDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} object{status=string}
// @Failure 503 {object} ErrorResponse
// @Router /health [get]
func (h *ProductHandler) HealthCheckDoc() {}

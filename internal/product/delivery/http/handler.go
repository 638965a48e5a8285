package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"math/bits"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tair/product-crud/internal/product/domain"
	"github.com/tair/product-crud/internal/product/usecase/command"
	"github.com/tair/product-crud/internal/product/usecase/query"
	"github.com/tair/product-crud/pkg/logger"
)

const (
	getProductRoute = "get-product"
	maxBodyBytes    = 1 << 20
)

// ProductHandler handles HTTP requests for products using CQRS pattern
type ProductHandler struct {
	// Command handlers
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler

	// Query handlers
	getProductHandler *query.GetProductHandler
	listHandler       *query.ListProductsHandler

	repo           domain.ProductRepository
	log            zerolog.Logger
	router         *mux.Router
	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	requestSummary *prometheus.SummaryVec
	totalProducts  prometheus.Gauge
}

// NewProductHandler creates a new product handler with CQRS pattern (manual DI)
func NewProductHandler(repo domain.ProductRepository, log zerolog.Logger, reg prometheus.Registerer) (*ProductHandler, error) {
	return NewProductHandlerWithDI(
		command.NewCreateProductHandler(repo),
		command.NewUpdateProductHandler(repo),
		command.NewDeleteProductHandler(repo),
		query.NewGetProductHandler(repo),
		query.NewListProductsHandler(repo),
		repo, log, reg,
	)
}

// NewProductHandlerWithDI creates a new product handler using dependency injection
// This is used by Wire for automatic dependency injection
func NewProductHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	repo domain.ProductRepository,
	log zerolog.Logger,
	reg prometheus.Registerer,
) (*ProductHandler, error) {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_service_requests_total",
			Help: "Total number of requests to product service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "product_service_request_duration_seconds",
			Help:    "Duration of product service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Summary metric for percentile calculation (p50, p90, p95, p99)
	requestSummary := prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name: "product_service_request_duration_summary",
			Help: "Summary of request durations with percentiles (client-side quantiles)",
			Objectives: map[float64]float64{
				0.5:  0.05,
				0.9:  0.01,
				0.95: 0.01,
				0.99: 0.001,
			},
			MaxAge: 10 * time.Minute,
		},
		[]string{"method", "endpoint"},
	)

	totalProducts := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "product_service_total_products",
			Help: "Total number of products in the system",
		},
	)

	for _, c := range []prometheus.Collector{requestCounter, requestLatency, requestSummary, totalProducts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return &ProductHandler{
		createHandler:     createHandler,
		updateHandler:     updateHandler,
		deleteHandler:     deleteHandler,
		getProductHandler: getProductHandler,
		listHandler:       listHandler,
		repo:              repo,
		log:               log.With().Str("component", "product-handler").Logger(),
		requestCounter:    requestCounter,
		requestLatency:    requestLatency,
		requestSummary:    requestSummary,
		totalProducts:     totalProducts,
	}, nil
}

// productRequest is the JSON body accepted by create and update
type productRequest struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Version     uint    `json:"version"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *ProductHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()

		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestSummary.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

func (h *ProductHandler) RegisterRoutes(router *mux.Router) {
	h.router = router
	h.updateProductsMetric(context.Background())

	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.GetProduct)).Methods("GET").Name(getProductRoute)
	router.HandleFunc("/api/products", h.metricsMiddleware("/api/products", h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.UpdateProduct)).Methods("PUT")
	router.HandleFunc("/api/products/{id}", h.metricsMiddleware("/api/products/{id}", h.DeleteProduct)).Methods("DELETE")
}

// ListProducts handles GET /api/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger(ctx).With().Str("operation", "list").Logger()
	log.Info().Msg("Fetching all products")

	products, err := h.listHandler.Handle(ctx, query.ListProductsQuery{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch products")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info().Int("count", len(products)).Msg("Fetched products")
	respondJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	log := h.logger(ctx).With().Str("operation", "get").Uint("product_id", id).Logger()
	log.Info().Msg("Fetching product")

	product, err := h.getProductHandler.Handle(ctx, query.GetProductQuery{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		log.Warn().Msg("Product not found")
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch product")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info().Msg("Fetched product")
	respondJSON(w, http.StatusOK, product)
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger(ctx).With().Str("operation", "create").Logger()

	var req productRequest
	if err := decodeBody(w, r, &req); err != nil {
		log.Warn().Err(err).Msg("Invalid request body")
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	log.Info().Str("name", req.Name).Msg("Creating a new product")

	product, err := h.createHandler.Handle(ctx, command.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create product")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.updateProductsMetric(ctx)

	log.Info().Uint("product_id", product.ID).Msg("Product created successfully")
	w.Header().Set("Location", h.productLocation(product.ID))
	respondJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	log := h.logger(ctx).With().Str("operation", "update").Uint("product_id", id).Logger()

	var req productRequest
	if err := decodeBody(w, r, &req); err != nil {
		log.Warn().Err(err).Msg("Invalid request body")
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	log.Info().Uint("version", req.Version).Msg("Updating product")

	_, err := h.updateHandler.Handle(ctx, command.UpdateProductCommand{
		PathID:      id,
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Version:     req.Version,
	})
	switch {
	case err == nil:
		log.Info().Msg("Product updated successfully")
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrProductIDMismatch):
		log.Warn().Uint("body_product_id", req.ID).Msg("Product ID mismatch for update")
		respondError(w, http.StatusBadRequest, "Product ID mismatch")
	case errors.Is(err, domain.ErrProductNotFound):
		log.Warn().Msg("Product not found for update")
		respondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrProductConflict):
		log.Error().Err(err).Msg("Concurrency conflict while updating product")
		respondError(w, http.StatusConflict, "Product was modified concurrently")
	default:
		log.Error().Err(err).Msg("Failed to update product")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	log := h.logger(ctx).With().Str("operation", "delete").Uint("product_id", id).Logger()
	log.Info().Msg("Deleting product")

	err := h.deleteHandler.Handle(ctx, command.DeleteProductCommand{ID: id})
	if errors.Is(err, domain.ErrProductNotFound) {
		log.Warn().Msg("Product not found for deletion")
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to delete product")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.updateProductsMetric(ctx)

	log.Info().Msg("Product deleted successfully")
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				h.logger(r.Context()).Error().Err(err).Msg("Health check failed")
				respondError(w, http.StatusServiceUnavailable, "Database unavailable")
				return
			}
		}

		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
}

func (h *ProductHandler) logger(ctx context.Context) *zerolog.Logger {
	return logger.WithContext(ctx, h.log)
}

// productLocation points at the GET route for id
func (h *ProductHandler) productLocation(id uint) string {
	idStr := strconv.FormatUint(uint64(id), 10)
	if h.router != nil {
		if route := h.router.Get(getProductRoute); route != nil {
			if u, err := route.URL("id", idStr); err == nil {
				return u.String()
			}
		}
	}
	return "/api/products/" + idStr
}

// updateProductsMetric updates the total products gauge
func (h *ProductHandler) updateProductsMetric(ctx context.Context) {
	count, err := h.repo.Count(ctx)
	if err == nil {
		h.totalProducts.Set(float64(count))
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, bits.UintSize)
	if err != nil || id == 0 {
		respondError(w, http.StatusBadRequest, "Invalid product ID")
		return 0, false
	}
	return uint(id), true
}

// decodeBody reads exactly one JSON value of bounded size into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

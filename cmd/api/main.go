package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/otel/trace"

	_ "storefront/docs"
	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/checkout"
	"storefront/pkg/logger"
	"storefront/pkg/order"
	"storefront/pkg/order/postgres"
	"storefront/pkg/order/sqlite"
	"storefront/pkg/otel"
)

var (
	redisClient *redis.Client
	products    *catalog.Store
	co          *checkout.Service
	orders      order.Repository
	log         *logger.Logger
	tracer      trace.Tracer
)

const catalogCacheKey = "catalog:list"

// @title Storefront API
// @version 1.0
// @description Product browsing, cart management and checkout for the storefront.
// @host localhost:8080
// @BasePath /
func main() {
	log = logger.New(os.Stdout, logger.LevelInfo, "storefront", otel.GetTraceID)
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(otel.Config{ServiceName: "storefront", Host: os.Getenv("OTEL_HOST"), Probability: 1.0})
	if err != nil {
		log.Error(context.Background(), "init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdown(context.Background())
	tracer = tp.Tracer("storefront")

	repo, closeRepo, err := openRepository()
	if err != nil {
		log.Error(context.Background(), "open order store", "error", err)
		os.Exit(1)
	}
	defer closeRepo()
	orders = repo

	products = catalog.NewStore(catalog.Seed())
	co = checkout.New(products, cart.New(), orders)

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: addr})
	}

	r := mux.NewRouter()
	r.Use(traceMiddleware)

	r.HandleFunc("/products", listProductsHandler).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", getProductHandler).Methods(http.MethodGet)
	r.HandleFunc("/categories", listCategoriesHandler).Methods(http.MethodGet)
	r.HandleFunc("/cart", getCartHandler).Methods(http.MethodGet)
	r.HandleFunc("/cart/items", addCartItemHandler).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}", updateCartItemHandler).Methods(http.MethodPut)
	r.HandleFunc("/cart/items/{id}", removeCartItemHandler).Methods(http.MethodDelete)
	r.HandleFunc("/checkout", checkoutHandler).Methods(http.MethodPost)
	r.HandleFunc("/orders", listOrdersHandler).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", getOrderHandler).Methods(http.MethodGet)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Info(context.Background(), "listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Error(context.Background(), "server closed", "error", err)
	}
}

// openRepository selects the order store: Postgres when DATABASE_URL is set,
// otherwise a local SQLite file.
func openRepository() (order.Repository, func() error, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, nil, err
		}
		repo, err := postgres.New(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, db.Close, nil
	}
	path := os.Getenv("ORDERS_DB")
	if path == "" {
		path = "orders.db"
	}
	repo, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return repo, repo.Close, nil
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), tracer)
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		log.Info(ctx, "request", "id", reqID, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// listProductsHandler lists catalog products, optionally filtered.
// @Summary List products
// @Produce json
// @Param q query string false "Search over name and description"
// @Param category query string false "Category filter"
// @Success 200 {array} catalog.Product
// @Router /products [get]
func listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listProductsHandler")
	defer span.End()

	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	if q == "" && category == "" {
		if b, ok := cachedCatalog(ctx); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write(b)
			return
		}
		b, err := json.Marshal(products.List())
		if err != nil {
			httpError(ctx, w, err)
			return
		}
		cacheCatalog(ctx, b)
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
		return
	}
	writeJSON(ctx, w, http.StatusOK, products.Search(q, category))
}

// getProductHandler retrieves one product.
// @Summary Get product
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} catalog.Product
// @Router /products/{id} [get]
func getProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getProductHandler")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	p, err := products.Get(id)
	if err != nil {
		httpError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, p)
}

// listCategoriesHandler lists the distinct product categories.
// @Summary List categories
// @Produce json
// @Success 200 {array} string
// @Router /categories [get]
func listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listCategoriesHandler")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, products.Categories())
}

type cartItemResponse struct {
	Product   *catalog.Product `json:"product"`
	Quantity  int              `json:"quantity"`
	LineTotal decimal.Decimal  `json:"line_total"`
}

type cartResponse struct {
	Items    []cartItemResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Count    int                `json:"count"`
}

func cartView() cartResponse {
	c := co.Cart()
	items := c.Items()
	resp := cartResponse{Items: make([]cartItemResponse, 0, len(items)), Subtotal: c.Subtotal(), Count: c.Count()}
	for _, it := range items {
		resp.Items = append(resp.Items, cartItemResponse{Product: it.Product, Quantity: it.Quantity, LineTotal: it.LineTotal()})
	}
	return resp
}

// getCartHandler returns the cart contents and subtotal.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cartResponse
// @Router /cart [get]
func getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, cartView())
}

type addItemRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// addCartItemHandler adds units of a product to the cart.
// @Summary Add cart item
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Product and quantity"
// @Success 200 {object} cartResponse
// @Router /cart/items [post]
func addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addCartItemHandler")
	defer span.End()

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := products.Get(req.ProductID)
	if err != nil {
		httpError(ctx, w, err)
		return
	}
	if err := co.Cart().Add(p, req.Quantity); err != nil {
		httpError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, cartView())
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// updateCartItemHandler overwrites a cart entry's quantity.
// @Summary Set cart item quantity
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param item body setQuantityRequest true "New quantity"
// @Success 200 {object} cartResponse
// @Router /cart/items/{id} [put]
func updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateCartItemHandler")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := co.Cart().SetQuantity(id, req.Quantity); err != nil {
		httpError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, cartView())
}

// removeCartItemHandler removes a product from the cart.
// @Summary Remove cart item
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} cartResponse
// @Router /cart/items/{id} [delete]
func removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeCartItemHandler")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	co.Cart().Remove(id)
	writeJSON(ctx, w, http.StatusOK, cartView())
}

// checkoutHandler places an order from the current cart.
// @Summary Checkout
// @Accept json
// @Produce json
// @Param customer body checkout.Customer true "Customer details"
// @Success 201 {object} order.Order
// @Router /checkout [post]
func checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "checkoutHandler")
	defer span.End()

	var cust checkout.Customer
	if err := json.NewDecoder(r.Body).Decode(&cust); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o, err := co.PlaceOrder(ctx, cust)
	if err != nil {
		httpError(ctx, w, err)
		return
	}
	// Stock changed; drop the cached listing.
	invalidateCatalog(ctx)
	log.Info(ctx, "order placed", "order_id", o.ID, "total", o.Total.StringFixed(2))
	writeJSON(ctx, w, http.StatusCreated, o)
}

// listOrdersHandler lists persisted orders.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Router /orders [get]
func listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	list, err := orders.List(ctx)
	if err != nil {
		httpError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, list)
}

// getOrderHandler retrieves an order by id.
// @Summary Get order
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} order.Order
// @Router /orders/{id} [get]
func getOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getOrderHandler")
	defer span.End()

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid order id", http.StatusBadRequest)
		return
	}
	o, err := orders.Get(ctx, id)
	if err != nil {
		httpError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, o)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(ctx, "encode response", "error", err)
	}
}

// httpError maps domain errors onto status codes. Anything unrecognized is a
// persistence or internal failure: logged, reported as 500.
func httpError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, order.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, cart.ErrInsufficientStock):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error(ctx, "request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func cachedCatalog(ctx context.Context) ([]byte, bool) {
	if redisClient == nil {
		return nil, false
	}
	b, err := redisClient.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	return b, true
}

func cacheCatalog(ctx context.Context, b []byte) {
	if redisClient == nil {
		return
	}
	redisClient.Set(ctx, catalogCacheKey, b, time.Minute)
}

func invalidateCatalog(ctx context.Context) {
	if redisClient == nil {
		return
	}
	redisClient.Del(ctx, catalogCacheKey)
}

package server

import (
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shiven-c1/bill-software/internal/billing"
	"github.com/shiven-c1/bill-software/internal/catalog"
	"github.com/shiven-c1/bill-software/internal/handlers"
	"github.com/shiven-c1/bill-software/internal/httpx"
	"github.com/shiven-c1/bill-software/internal/order"
)

// New constructs the root http.Handler with all routes and middlewares
// applied. It wires the core once: one catalog store, one channel set (cart
// plus tableCount tables) and one billing engine per process.
func New(db *gorm.DB, tableCount int) http.Handler {
	store := catalog.NewStore(db)
	channels := order.NewChannels(store, tableCount)
	engine := billing.NewEngine(db)

	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Catalog endpoints. List/Create via /products; Update/Delete via
	// /products/update & /products/delete for simplicity.
	ch := handlers.NewCatalogHandler(store)
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ch.List(w, r)
		case http.MethodPost:
			ch.Create(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})
	mux.HandleFunc("/products/update", requireMethods(ch.Update, http.MethodPost, http.MethodPut))
	mux.HandleFunc("/products/delete", requireMethods(ch.Delete, http.MethodPost, http.MethodDelete))
	mux.HandleFunc("/products/adjust", requireMethods(ch.Adjust, http.MethodPost))

	// Order buffer endpoints (cart + tables).
	oh := handlers.NewOrderHandler(channels)
	mux.HandleFunc("/order", requireMethods(oh.View, http.MethodGet))
	mux.HandleFunc("/order/add", requireMethods(oh.Add, http.MethodPost))
	mux.HandleFunc("/order/remove", requireMethods(oh.Remove, http.MethodPost))
	mux.HandleFunc("/order/clear", requireMethods(oh.Clear, http.MethodPost))
	mux.HandleFunc("/tables", requireMethods(oh.Tables, http.MethodGet))
	mux.HandleFunc("/tables/ready", requireMethods(oh.MarkReady, http.MethodPost))
	mux.HandleFunc("/tables/served", requireMethods(oh.MarkServed, http.MethodPost))

	// Billing endpoints.
	bh := handlers.NewBillingHandler(engine, channels)
	mux.HandleFunc("/checkout", requireMethods(bh.Checkout, http.MethodPost))
	mux.HandleFunc("/sales", requireMethods(bh.ListSales, http.MethodGet))
	mux.HandleFunc("/sales/get", requireMethods(bh.GetSale, http.MethodGet))
	mux.HandleFunc("/sales/lines", requireMethods(bh.GetLines, http.MethodGet))

	return withRecover(withLogging(mux))
}

func requireMethods(h http.HandlerFunc, methods ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, m := range methods {
			if r.Method == m {
				h(w, r)
				return
			}
		}
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered", slog.Any("panic", rec))
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты сервиса: публичные register/login/health/metrics
// и защищенные bearer-токеном verify и операции с балансом
func NewRouter(impl *Implementation, am *AuthMiddleware,
	sugarLogger *zap.SugaredLogger) *mux.Router {
	r := mux.NewRouter()

	r.Use(AddLoggerToContextMiddleware(sugarLogger))
	r.Use(RequestMiddleware())
	r.Use(ResponseMiddleware())
	r.Use(MetricsMiddleware(impl.m))

	r.HandleFunc("/register", impl.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", impl.Login).Methods(http.MethodPost)
	r.HandleFunc("/health", impl.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(impl.m.Registry(),
		promhttp.HandlerOpts{})).Methods(http.MethodGet)

	protected := r.NewRoute().Subrouter()
	protected.Use(am.Middleware)
	protected.HandleFunc("/verify", impl.Verify).Methods(http.MethodPost)
	protected.HandleFunc("/balance/{user_id}", impl.GetBalance).Methods(http.MethodGet)
	protected.HandleFunc("/balance/{user_id}", impl.UpdateBalance).Methods(http.MethodPost)

	return r
}

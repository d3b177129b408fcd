package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kdv2001/authd/internal/domain"
	"github.com/kdv2001/authd/internal/pkg/logger"
	"github.com/kdv2001/authd/internal/pkg/metrics"
	"github.com/kdv2001/authd/internal/pkg/serviceerrors"
)

type authClient interface {
	AuthUser(ctx context.Context, token string) (domain.UserView, error)
}

type AuthMiddleware struct {
	auth authClient
}

func NewAuthMiddleware(auth authClient) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// Middleware проверяет bearer-токен и помещает проекцию пользователя в context
func (am *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get(AuthorizationKey), BearerPrefix)
		if token == "" {
			writeError(r.Context(), w,
				serviceerrors.NewUnauthorized().Wrap(nil, "authorization header missing"))
			return
		}

		view, err := am.auth.AuthUser(r.Context(), token)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		ctx := context.WithValue(r.Context(), userViewKey, view)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

func getUserView(ctx context.Context) (domain.UserView, bool) {
	val, ok := ctx.Value(userViewKey).(domain.UserView)
	return val, ok
}

// AddLoggerToContextMiddleware помещает logger в context
func AddLoggerToContextMiddleware(sugarLogger *zap.SugaredLogger) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ctx = logger.ToContext(ctx, sugarLogger)
			r = r.WithContext(ctx)

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// RequestMiddleware middleware для логирования запросов
func RequestMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			defer func() {
				logger.Infof(r.Context(), "request: url: %s; method: %s; processing time: %s",
					r.URL.String(), r.Method, time.Since(start).String())
			}()

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}

// MetricsMiddleware считает количество и длительность запросов.
// Путь берется из шаблона маршрута, чтобы не раздувать кардинальность.
func MetricsMiddleware(m *metrics.Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			updatedWriter := NewWriterWithLogging(w)

			next.ServeHTTP(updatedWriter, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					path = tpl
				}
			}

			m.RequestCount.
				WithLabelValues(r.Method, path, strconv.Itoa(updatedWriter.statusCode)).Inc()
			m.RequestDuration.
				WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		}

		return http.HandlerFunc(fn)
	}
}

// ResponseMiddleware middleware для логирования ответов
func ResponseMiddleware() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			updatedWriter := NewWriterWithLogging(w)
			defer func() {
				logger.Infof(r.Context(), "response: status code: %d, datasize: %d bytes",
					updatedWriter.statusCode,
					updatedWriter.responseSize)
			}()

			next.ServeHTTP(updatedWriter, r)
		}

		return http.HandlerFunc(fn)
	}
}

// WriterWithLogging реализация интерфейса writer для перехвата информации ответа
type WriterWithLogging struct {
	statusCode   int
	responseSize int

	baseWriter http.ResponseWriter
}

// NewWriterWithLogging создание нового WriterWithLogging объекта
func NewWriterWithLogging(baseWriter http.ResponseWriter) *WriterWithLogging {
	return &WriterWithLogging{
		statusCode: http.StatusOK,
		baseWriter: baseWriter,
	}
}

// Write ...
func (w *WriterWithLogging) Write(b []byte) (int, error) {
	w.responseSize += len(b)
	return w.baseWriter.Write(b)
}

// WriteHeader ...
func (w *WriterWithLogging) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.baseWriter.WriteHeader(statusCode)
}

// Header ...
func (w *WriterWithLogging) Header() http.Header {
	return w.baseWriter.Header()
}

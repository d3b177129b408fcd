package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/kdv2001/authd/internal/domain"
	"github.com/kdv2001/authd/internal/pkg/metrics"
	"github.com/kdv2001/authd/internal/pkg/serviceerrors"
)

type userClient interface {
	RegisterUser(ctx context.Context, cred domain.Credentials) (domain.SessionToken, error)
	LoginUser(ctx context.Context, cred domain.Credentials) (domain.SessionToken, error)
	AuthUser(ctx context.Context, token string) (domain.UserView, error)
	GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error
}

type Implementation struct {
	u userClient
	m *metrics.Metrics
}

func New(u userClient, m *metrics.Metrics) *Implementation {
	return &Implementation{
		u: u,
		m: m,
	}
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// Register POST /register — регистрация пользователя
func (i *Implementation) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := registerRequest{}
	if err = json.Unmarshal(body, &req); err != nil {
		writeError(ctx, w, serviceerrors.NewBadRequest(""))
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(ctx, w,
			serviceerrors.NewBadRequest("username and password are required"))
		return
	}

	token, err := i.u.RegisterUser(ctx, domain.Credentials{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		i.m.AuthFailure.Inc()
		writeError(ctx, w, err)
		return
	}

	i.m.AuthSuccess.Inc()
	writeJSON(ctx, w, map[string]string{
		"token": token.Token,
	})
}

// Login POST /login — аутентификация пользователя, форма в теле
func (i *Implementation) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		writeError(ctx, w, serviceerrors.NewBadRequest(""))
		return
	}

	token, err := i.u.LoginUser(ctx, domain.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	})
	if err != nil {
		i.m.AuthFailure.Inc()
		writeError(ctx, w, err)
		return
	}

	i.m.AuthSuccess.Inc()
	writeJSON(ctx, w, map[string]string{
		"access_token": token.Token,
		"token_type":   "bearer",
	})
}

// Verify POST /verify — проверка токена, возвращает проекцию пользователя
func (i *Implementation) Verify(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	ctx := r.Context()

	view, isOK := getUserView(ctx)
	if !isOK {
		writeError(ctx, w,
			serviceerrors.NewAppError(errors.New("user view missing in context")))
		return
	}

	writeJSON(ctx, w, view)
}

// GetBalance GET /balance/{user_id} — текущий баланс пользователя
func (i *Implementation) GetBalance(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	ctx := r.Context()

	userID, err := uuid.Parse(mux.Vars(r)["user_id"])
	if err != nil {
		writeError(ctx, w, serviceerrors.NewBadRequest("invalid user id"))
		return
	}

	balance, err := i.u.GetBalance(ctx, userID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, map[string]float64{
		"balance": balance.InexactFloat64(),
	})
}

type updateBalanceRequest struct {
	Amount float64 `json:"amount"`
}

// UpdateBalance POST /balance/{user_id} — безусловная перезапись баланса
func (i *Implementation) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	ctx := r.Context()

	userID, err := uuid.Parse(mux.Vars(r)["user_id"])
	if err != nil {
		writeError(ctx, w, serviceerrors.NewBadRequest("invalid user id"))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := updateBalanceRequest{}
	if err = json.Unmarshal(body, &req); err != nil {
		writeError(ctx, w, serviceerrors.NewBadRequest(""))
		return
	}

	if err = i.u.UpdateBalance(ctx, userID, decimal.NewFromFloat(req.Amount)); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, map[string]string{
		"status": "balance updated",
	})
}

// Health GET /health
func (i *Implementation) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, map[string]string{
		"status": "healthy",
	})
}

// mapDomainError транслирует ожидаемые исходы в HTTP-коды контракта.
// Инфраструктурные ошибки остаются 500 и не смешиваются с "не найдено".
func mapDomainError(err error) *serviceerrors.AppError {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return serviceerrors.NewBadRequest("user already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		return serviceerrors.NewBadRequest("invalid username or password")
	case errors.Is(err, domain.ErrInvalidToken):
		return serviceerrors.NewUnauthorized().Wrap(err, "invalid or expired token")
	case errors.Is(err, domain.ErrNotFound):
		return serviceerrors.NewNotFound()
	default:
		return serviceerrors.AppErrorFromError(err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := mapDomainError(err).LogServerError(ctx)
	http.Error(w, appErr.String(), appErr.Code)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, payload any) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	w.Header().Set(ContentType, ApplicationJSONType)
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(jsonBytes); err != nil {
		writeError(ctx, w, err)
	}
}

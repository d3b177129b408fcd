package user

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kdv2001/authd/internal/domain"
)

// GetBalance возвращает текущий баланс пользователя
func (a *Implementation) GetBalance(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	u, err := a.store.GetByID(ctx, userID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return u.Account, nil
}

// UpdateBalance безусловно перезаписывает баланс новым значением.
// Это set, а не инкремент: при гонке двух перезаписей одна теряется.
// Закешированные проекции пользователя не инвалидируются - устаревший
// баланс живет в кеше не дольше его TTL.
func (a *Implementation) UpdateBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) error {
	found, err := a.store.UpdateBalance(ctx, userID, amount)
	if err != nil {
		return err
	}

	if !found {
		return domain.ErrNotFound
	}

	a.publish(ctx, domain.Event{
		Kind:      domain.BalanceUpdated,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	})

	return nil
}

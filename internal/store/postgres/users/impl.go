package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kdv2001/authd/internal/domain"
)

type Implementation struct {
	c *pgxpool.Pool
}

var usersTable = `create table if not exists users (
    	user_id    uuid primary key,
    	username   varchar NOT NULL UNIQUE,
    	password   varchar NOT NULL,
    	first_name varchar,
    	last_name  varchar,
    	account    decimal NOT NULL DEFAULT(0),
    	created_at timestamp WITHOUT TIME ZONE NOT NULL DEFAULT (NOW() AT TIME ZONE 'UTC'))`

var tables = []string{
	usersTable,
}

// NewImplementation ...
func NewImplementation(ctx context.Context, c *pgxpool.Pool) (*Implementation, error) {
	for _, t := range tables {
		_, err := c.Exec(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}

	return &Implementation{
		c: c,
	}, nil
}

type user struct {
	UserID    sql.NullString  `db:"user_id"`
	Username  sql.NullString  `db:"username"`
	Password  sql.NullString  `db:"password"`
	FirstName sql.NullString  `db:"first_name"`
	LastName  sql.NullString  `db:"last_name"`
	Account   sql.NullFloat64 `db:"account"`
}

// Insert атомарно создает запись пользователя. Уникальность имени
// обеспечивает ограничение в таблице, а не проверка перед вставкой:
// нарушение уникальности транслируется в domain.ErrConflict.
func (repo *Implementation) Insert(ctx context.Context, u domain.User) error {
	_, err := repo.c.Exec(ctx, `INSERT INTO users(user_id, username, password, first_name, last_name, account)
			values($1, $2, $3, $4, $5, $6);`,
		u.ID.String(), u.Username, u.Password, u.FirstName, u.LastName, u.Account)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}

		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// GetByUsername точный поиск по имени пользователя
func (repo *Implementation) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	return repo.get(ctx, `Select user_id, username, password, first_name, last_name, account
			from users where username = $1`, username)
}

// GetByID точный поиск по идентификатору
func (repo *Implementation) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	return repo.get(ctx, `Select user_id, username, password, first_name, last_name, account
			from users where user_id = $1`, userID.String())
}

func (repo *Implementation) get(ctx context.Context, query string, arg any) (domain.User, error) {
	u := user{}
	err := repo.c.QueryRow(ctx, query, arg).
		Scan(&u.UserID, &u.Username, &u.Password, &u.FirstName, &u.LastName, &u.Account)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}

		// недоступность хранилища не превращаем в "не найдено"
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}

	userID, err := uuid.Parse(u.UserID.String)
	if err != nil {
		return domain.User{}, fmt.Errorf("parse user_id: %w", err)
	}

	return domain.User{
		ID:        userID,
		Username:  u.Username.String,
		Password:  u.Password.String,
		FirstName: u.FirstName.String,
		LastName:  u.LastName.String,
		Account:   decimal.NewFromFloat(u.Account.Float64),
	}, nil
}

// UpdateBalance безусловно выставляет баланс в новое значение (не инкремент).
// Возвращает, нашлась ли запись.
func (repo *Implementation) UpdateBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (bool, error) {
	tag, err := repo.c.Exec(ctx, `UPDATE users SET account = $1 WHERE user_id = $2`,
		amount, userID.String())
	if err != nil {
		return false, fmt.Errorf("update balance: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == "23505"
}

package domain

import "errors"

// ErrConflict ошибка: имя пользователя уже занято
var ErrConflict = errors.New("username already taken")

// ErrUnauthorized ошибка: неверное имя пользователя или пароль
var ErrUnauthorized = errors.New("invalid username or password")

// ErrInvalidToken ошибка: токен не прошел проверку или истек
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrNotFound ошибка: запись не найдена
var ErrNotFound = errors.New("not found")

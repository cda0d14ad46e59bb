// Package crypto хеширует и проверяет пароль панели управления.
//
// В конфигурации хранится только bcrypt-хэш (DASHBOARD_PASSWORD_HASH);
// сам пароль никогда не попадает ни в env, ни в логи.
package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordMismatch = errors.New("password does not match hash")
	ErrInvalidHash      = errors.New("invalid password hash format")
	ErrPasswordTooLong  = errors.New("password exceeds maximum length of 72 bytes")
)

// DefaultCost - стоимость bcrypt для хэша пароля панели.
// Панель логинится редко, поэтому дорогой хэш не мешает.
const DefaultCost = 12

// MaxPasswordLength - ограничение bcrypt на длину пароля (72 байта)
const MaxPasswordLength = 72

// HashPassword генерирует bcrypt-хэш для DASHBOARD_PASSWORD_HASH.
// Salt генерируется автоматически, хэш каждый раз разный.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword сверяет пароль с хэшом.
// Сравнение constant-time, ошибки различают несовпадение и битый хэш.
func VerifyPassword(password, hash string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if hash == "" {
		return ErrInvalidHash
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return ErrInvalidHash
	}
	return nil
}

// CheckPasswordMatch - bool-обертка над VerifyPassword для middleware
func CheckPasswordMatch(password, hash string) bool {
	return VerifyPassword(password, hash) == nil
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"loanbot/pkg/crypto"
)

// BasicAuth возвращает middleware с HTTP Basic аутентификацией
//
// Пароль хранится только в виде bcrypt-хэша (DASHBOARD_PASSWORD_HASH);
// сравнение имени пользователя - constant-time, пароль проверяется
// через bcrypt, который сам устойчив к timing attacks.
//
// Использование:
//
//	api := router.PathPrefix("/api/v1").Subrouter()
//	api.Use(middleware.BasicAuth(cfg.DashboardUser, cfg.DashboardPasswordHash))
func BasicAuth(username, passwordHash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok {
				unauthorized(w)
				return
			}

			userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passMatch := crypto.CheckPasswordMatch(pass, passwordHash)

			if !userMatch || !passMatch {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="loanbot"`)
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

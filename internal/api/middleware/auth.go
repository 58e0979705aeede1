package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-CostumeRentalService/internal/api/handlers"
)

// HeaderTgID заголовок с Telegram ID пользователя мини-приложения
const HeaderTgID = "X-Tg-ID"

const (
	msgMissingUserID = "отсутствует или некорректен заголовок X-Tg-ID"
	msgAdminOnly     = "доступ только для администратора"
)

type contextKey string

const (
	userIDKey  contextKey = "user_id"
	isAdminKey contextKey = "is_admin"
)

// Authenticator проверяет заголовок X-Tg-ID и определяет администраторов
type Authenticator struct {
	admins map[int64]struct{}
}

// NewAuthenticator создает проверку с заданным списком администраторов
func NewAuthenticator(adminIDs []int64) *Authenticator {
	admins := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = struct{}{}
	}
	return &Authenticator{admins: admins}
}

// Auth требует положительный X-Tg-ID и кладёт его в контекст
func (a *Authenticator) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := strconv.ParseInt(r.Header.Get(HeaderTgID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		_, isAdmin := a.admins[userID]
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, isAdminKey, isAdmin)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly пропускает только администраторов, ставится после Auth
func (a *Authenticator) AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUserID возвращает Telegram ID из контекста запроса
func GetUserID(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// IsAdmin true, если пользователь запроса администратор
func IsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(isAdminKey).(bool)
	return isAdmin
}

// WithUser кладёт пользователя в контекст, используется в тестах обработчиков
func WithUser(ctx context.Context, userID int64, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

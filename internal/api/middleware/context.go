package middleware

import "context"

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
	adminKey  contextKey = "is_admin"
)

// WithIdentity кладет субъект, роль и признак администратора в контекст
func WithIdentity(ctx context.Context, userID, role string, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, roleKey, role)
	return context.WithValue(ctx, adminKey, isAdmin)
}

// GetUserID возвращает ID пользователя (subject токена)
func GetUserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetRole возвращает роль пользователя
func GetRole(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// IsAdmin true, если пользователь администратор
func IsAdmin(ctx context.Context) bool {
	isAdmin, _ := ctx.Value(adminKey).(bool)
	return isAdmin
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/HomeService-Booking/internal/api/handlers"
)

const (
	msgMissingToken = "отсутствует токен авторизации"
	msgInvalidToken = "недействительный токен авторизации"
	msgAdminOnly    = "требуются права администратора"
)

// Claims утверждения токена identity provider
// Subject (sub) это ID пользователя
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator проверяет Bearer JWT (HS256)
type Authenticator struct {
	secret    []byte
	issuer    string
	adminRole string
	logger    Logger
}

// NewAuthenticator создает middleware аутентификации
// Пустой issuer отключает проверку iss
func NewAuthenticator(secret, issuer, adminRole string, logger Logger) *Authenticator {
	return &Authenticator{
		secret:    []byte(secret),
		issuer:    issuer,
		adminRole: adminRole,
		logger:    logger,
	}
}

// Authenticate требует валидный токен и кладет субъект в контекст
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		claims, err := a.parse(token)
		if err != nil {
			a.logger.Warn("Auth: rejected token for %s %s: %v", r.Method, r.URL.Path, err)
			handlers.RespondUnauthorized(w, msgInvalidToken)
			return
		}

		ctx := WithIdentity(r.Context(), claims.Subject, claims.Role, claims.Role == a.adminRole)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает только администраторов; ставится после Authenticate
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		if !IsAdmin(r.Context()) {
			a.logger.Warn("Auth: non-admin user=%s tried %s %s", userID, r.Method, r.URL.Path)
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

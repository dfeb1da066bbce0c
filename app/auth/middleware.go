package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/planforge/ms-go-plans/app/dto"
)

const userIDContextKey = "auth.user_id"

var errNoSubject = errors.New("token has no subject")

// Middleware resolves the authenticated user from a bearer token issued by
// the external identity service. Tokens are verified only; this service
// never issues credentials.
type Middleware struct {
	secret []byte
}

func NewMiddleware(secret string) *Middleware {
	return &Middleware{secret: []byte(secret)}
}

func (m *Middleware) RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			token := bearerToken(ctx.Request().Header.Get("Authorization"))
			if token == "" {
				return ctx.JSON(http.StatusUnauthorized, &dto.ErrorResponse{Error: "missing bearer token"})
			}

			userID, err := m.resolveSubject(token)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, &dto.ErrorResponse{Error: "invalid token"})
			}

			SetUserID(ctx, userID)
			return next(ctx)
		}
	}
}

func (m *Middleware) resolveSubject(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", errNoSubject
	}
	return claims.Subject, nil
}

func SetUserID(ctx echo.Context, userID string) {
	ctx.Set(userIDContextKey, userID)
}

func UserIDFromContext(ctx echo.Context) string {
	userID, _ := ctx.Get(userIDContextKey).(string)
	return userID
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

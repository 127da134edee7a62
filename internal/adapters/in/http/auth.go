package http

import (
	"errors"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/domain/model/kernel"
)

const actorContextKey = "actor"

type actorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the Bearer JWT and stores the resulting Actor in
// the request context. Requests without a valid token get 401 before any
// handler runs.
func AuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			actor, err := actorFromToken(ctx.Request().Header.Get("Authorization"), secret)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Code:    http.StatusUnauthorized,
					Message: "authentication required",
				})
			}

			ctx.Set(actorContextKey, actor)
			return next(ctx)
		}
	}
}

func actorFromToken(header, secret string) (kernel.Actor, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return kernel.Actor{}, errors.New("missing bearer token")
	}

	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), &actorClaims{},
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
	if err != nil || !token.Valid {
		return kernel.Actor{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*actorClaims)
	if !ok {
		return kernel.Actor{}, errors.New("invalid claims")
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return kernel.Actor{}, err
	}

	return kernel.NewActor(id, kernel.Role(strings.ToLower(claims.Role)))
}

// requestActor returns the Actor placed into the context by AuthMiddleware.
func requestActor(ctx echo.Context) (kernel.Actor, bool) {
	actor, ok := ctx.Get(actorContextKey).(kernel.Actor)
	return actor, ok
}

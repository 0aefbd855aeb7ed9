package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo"
)

const (
	userIdKey   = "userId"
	tokenCookie = "token"
	tokenQuery  = "token"
)

var errNoToken = errors.New("missing token")

// authenticate accepts an HS256 token carrying the user id in "id" or "sub".
// The token is read from the Authorization header, then the "token" cookie,
// then the "token" query parameter (EventSource cannot set headers).
func authenticate(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := tokenFrom(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{"Not authorized, no token"})
			}

			userId, err := parseUserId(raw, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorResponse{"Not authorized, token failed"})
			}

			c.Set(userIdKey, userId)

			return next(c)
		}
	}
}

func tokenFrom(c echo.Context) (string, error) {
	if auth := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(auth, "Bearer ") {
		if raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); raw != "" {
			return raw, nil
		}
	}

	if cookie, err := c.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	if raw := c.QueryParam(tokenQuery); raw != "" {
		return raw, nil
	}

	return "", errNoToken
}

func parseUserId(raw string, secret []byte) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}

	for _, key := range []string{"id", "sub"} {
		if v, ok := claims[key].(string); ok && v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				return "", err
			}
			return id.String(), nil
		}
	}

	return "", errors.New("token has no user id")
}

func currentUser(c echo.Context) string {
	id, _ := c.Get(userIdKey).(string)
	return id
}

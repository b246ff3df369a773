package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var errNoBearer = errors.New("no bearer token")

// bearerSession validates the access token in the Authorization header and
// returns the session id it was issued to.
func bearerSession(authHeader, jwtSecret string) (string, error) {
	if authHeader == "" {
		return "", errNoBearer
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "token missing session")
	}
	return sid, nil
}

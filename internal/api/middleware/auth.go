package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/cursomc/commerce-api/internal/core/domain"
	"github.com/cursomc/commerce-api/internal/core/principal"
)

// Auth resolves the bearer token into a principal attached to the request
// context. Requests without an Authorization header continue anonymously; a
// header that is present but malformed or invalid is rejected with 401.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			p, ok := principalFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(principal.WithPrincipal(req.Context(), p)))
			return next(c)
		}
	}
}

func principalFromClaims(claims jwt.MapClaims) (domain.Principal, bool) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return domain.Principal{}, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return domain.Principal{}, false
	}
	username, _ := claims["username"].(string)

	var roles []domain.Role
	if raw, ok := claims["roles"].([]interface{}); ok {
		for _, v := range raw {
			s, _ := v.(string)
			if r, ok := domain.ParseRole(s); ok {
				roles = append(roles, r)
			}
		}
	}
	return domain.NewPrincipal(id, username, roles...), true
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/artmorais77/backend-orise/internal/apierror"
	"github.com/artmorais77/backend-orise/internal/scope"
)

const ClaimsKey = "claims"

// JWTClaims are the custom claims embedded in every access token.
type JWTClaims struct {
	UserID  string `json:"user_id"`
	StoreID string `json:"store_id"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route and rejects
// tokens whose claims do not carry a valid user/store pair.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticação necessária"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido ou expirado"))
			return
		}

		userID, uerr := uuid.Parse(claims.UserID)
		storeID, serr := uuid.Parse(claims.StoreID)
		if uerr != nil || serr != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido ou expirado"))
			return
		}

		c.Set(ClaimsKey, scope.Scope{UserID: userID, StoreID: storeID})
		c.Next()
	}
}

// GetScope retrieves the authenticated caller's scope from the Gin context.
func GetScope(c *gin.Context) scope.Scope {
	sc, _ := c.MustGet(ClaimsKey).(scope.Scope)
	return sc
}

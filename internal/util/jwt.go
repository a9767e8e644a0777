package util

import (
	"lms_backend/internal/model"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims JWT 载荷：多态身份(kind + id)在签发时确定，
// 后续请求直接还原为 model.Actor 注入 service。
type Claims struct {
	Kind  model.ActorKind `json:"kind"`
	ID    uint            `json:"id"`
	Email string          `json:"email"`
	jwt.RegisteredClaims
}

// Actor 还原为显式身份值
func (c *Claims) Actor() model.Actor {
	return model.Actor{Kind: c.Kind, ID: c.ID}
}

func GenerateJWT(kind model.ActorKind, id uint, email, secret string, expiration time.Duration) (string, error) {
	expirationTime := time.Now().Add(expiration)

	claims := &Claims{
		Kind:  kind,
		ID:    id,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, err
}

func GetClaimsFromContext(c *gin.Context) *Claims {
	v, exists := c.Get("claims")
	if !exists {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}

// GetActorFromContext 取当前请求的已解析身份，未登录返回 false
func GetActorFromContext(c *gin.Context) (model.Actor, bool) {
	claims := GetClaimsFromContext(c)
	if claims == nil {
		return model.Actor{}, false
	}
	return claims.Actor(), true
}

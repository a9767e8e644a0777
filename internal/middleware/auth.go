package middleware

import (
	"strings"

	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 解析 Bearer Token，把身份声明放进请求上下文。
// 后续的 controller 从 claims 还原 model.Actor 显式传给 service。
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, jwtSecret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// RequireKind 限定身份类型的路由组
func RequireKind(kind model.ActorKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := util.GetActorFromContext(c)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if actor.Kind != kind {
			util.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

func RequireTeacher() gin.HandlerFunc {
	return RequireKind(model.ActorTeacher)
}

func RequireStudent() gin.HandlerFunc {
	return RequireKind(model.ActorStudent)
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/reactivities/api/pkg/helpers"
	"github.com/reactivities/api/pkg/response"
)

// Auth validates the access token cookie and ensures an active session
// exists in Redis with a matching session id. It sets userID, userName,
// and userEmail in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		key := "user:session:" + claims.UserID
		data, err := rdb.HGetAll(c.Request.Context(), key).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.Abort()
			return
		}

		c.Set("userID", data["user_id"])
		c.Set("userName", data["display_name"])
		c.Set("userEmail", data["email"])
		c.Next()
	}
}

// AuthOptional resolves the session like Auth but lets anonymous
// requests through without setting userID. Used where the handler
// answers differently for anonymous callers instead of rejecting them.
func AuthOptional(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			c.Next()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			c.Next()
			return
		}
		data, err := rdb.HGetAll(c.Request.Context(), "user:session:"+claims.UserID).Result()
		if err != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			c.Next()
			return
		}
		c.Set("userID", data["user_id"])
		c.Set("userName", data["display_name"])
		c.Set("userEmail", data["email"])
		c.Next()
	}
}

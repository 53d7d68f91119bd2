package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters with default value
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// QueryString extracts a string from query parameters with default value
func QueryString(c *gin.Context, key, defaultValue string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return defaultValue
}

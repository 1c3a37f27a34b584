package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const maxLimit = 200

// pathID parses :id and replies 400 when it is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// queryInt reads a non-negative integer query parameter capped at max.
// Absent parameters yield 0 and the service applies its default.
func queryInt(c *gin.Context, name string, max int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	if n > max {
		n = max
	}
	return n, true
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flexipanel/blocks/internal/logger"
	"github.com/flexipanel/blocks/pkg/errors"
)

// ErrorMiddleware translates StatusError values attached via c.Error into
// JSON responses; anything else becomes an opaque 500.
func ErrorMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			log.Error("request failed", "path", c.Request.URL.Path, "err", err)

			switch e := err.(type) {
			case *errors.StatusError:
				response := gin.H{
					"error": gin.H{
						"code":    e.Code,
						"message": e.Message,
					},
				}
				if e.Reason != "" {
					response["error"].(gin.H)["reason"] = e.Reason
				}
				c.JSON(e.Code, response)
			default:
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"code":    http.StatusInternalServerError,
						"message": "Internal server error",
					},
				})
			}
		}
	}
}

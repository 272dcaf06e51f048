package respond

import (
	"log"

	"github.com/gin-gonic/gin"

	"campustech-backend/internal/apperr"
)

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// Error aborts the request with the status and body for err's category.
// Internal details are logged, never returned.
func Error(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	if status >= 500 {
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	body := gin.H{"error": apperr.Message(err), "code": string(apperr.KindOf(err))}
	if subject := apperr.Subject(err); subject != "" {
		body["item"] = subject
	}
	c.AbortWithStatusJSON(status, body)
}

// BadRequest reports a malformed payload.
func BadRequest(c *gin.Context, message string) {
	Error(c, apperr.Validation("%s", message))
}

// en pkg/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	sharedDomain "github.com/davicafu/hexasearch/internal/shared/domain"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SendSuccess envía una respuesta exitosa con un payload de datos.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
		},
	})
}

// SendValidationErrors devuelve 400 con todas las violaciones de una búsqueda.
func SendValidationErrors(c *gin.Context, err error) {
	violations := sharedDomain.ValidationErrors(err)
	if violations == nil {
		violations = []*sharedDomain.ValidationError{}
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"errors": violations,
	})
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

func SendServiceUnavailable(c *gin.Context, message string) {
	SendError(c, http.StatusServiceUnavailable, message)
}

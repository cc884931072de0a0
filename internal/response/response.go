package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/stylecast-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondError maps service error kinds to status codes; anything unmapped is
// a 500 with a generic message so internals never leak.
func RespondError(c *gin.Context, err error) {
	var (
		validationErr  *services.ValidationError
		capacityErr    *services.CapacityError
		notFoundErr    *services.NotFoundError
		conflictErr    *services.ConflictError
		unavailableErr *services.UnavailableError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: validationErr.Message, Code: "VALIDATION"}})
	case errors.As(err, &capacityErr):
		c.JSON(http.StatusTooManyRequests, ErrorEnvelope{Error: APIError{Message: capacityErr.Message, Code: "RATE_LIMITED"}})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, ErrorEnvelope{Error: APIError{Message: notFoundErr.Message, Code: "NOT_FOUND"}})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, ErrorEnvelope{Error: APIError{Message: conflictErr.Message, Code: "CONFLICT"}})
	case errors.As(err, &unavailableErr):
		c.JSON(http.StatusServiceUnavailable, ErrorEnvelope{Error: APIError{Message: unavailableErr.Message, Code: "SATURATED"}})
	default:
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{Error: APIError{Message: "internal server error", Code: "INTERNAL"}})
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ian97531/boombox/internal/api/errors"
)

// ErrorHandler recovers from panics and answers with an internal APIError
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString(RequestIDKey)

		logger.Error("Recovered from panic",
			zap.Any("recovered", recovered),
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)

		apiErr := errors.NewInternalError("Internal server error")
		apiErr.RequestID = requestID
		c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
	})
}

// HandleError answers with the API form of err. Internal errors are attached to the
// context so the logging middleware records the cause.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	apiErr := errors.FromError(err)
	if apiErr.Kind == errors.KindInternal {
		_ = c.Error(err)
	}

	// copy so shared error values are not mutated
	response := *apiErr
	response.RequestID = c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(response.HTTPStatus(), &response)
}

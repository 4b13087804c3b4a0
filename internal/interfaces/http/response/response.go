package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "monthly-club.backend/internal/domain/errors"
	"monthly-club.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps err to a status and writes {code, message}. Only validation
// messages and explicit AppError messages reach the client; everything else
// gets the status text.
func Error(c *gin.Context, err error) {
	status := domainerrors.StatusFor(err)
	code := domainerrors.CodeFor(err)

	message := http.StatusText(status)
	var appErr *domainerrors.AppError
	switch {
	case errors.As(err, &appErr):
		message = appErr.Message
	case errors.Is(err, domainerrors.ErrValidation):
		message = err.Error()
	}

	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}

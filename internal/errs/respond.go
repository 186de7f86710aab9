package errs

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Respond writes err as a JSON error body with the status of its class. Internal errors
// are logged and replaced by msg.
func Respond(c echo.Context, logger *zap.Logger, err error, msg string) error {
	status := Status(err)
	if status == http.StatusInternalServerError {
		logger.Error(msg, zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(status, echo.Map{"error": Message(err, msg)})
}

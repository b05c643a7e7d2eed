package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/existflow/timeline/internal/logger"
	"github.com/existflow/timeline/internal/model"
	"github.com/labstack/echo/v4"
)

// errorResponse maps ledger errors onto status codes: not found is 404, any other
// validation failure is 422 and the rest are 500. A bad query parameter keeps its own status.
func errorResponse(c echo.Context, err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return c.JSON(he.Code, map[string]string{"error": fmt.Sprint(he.Message)})
	}

	code := model.ErrorCode(err)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error(), "code": code})
	case code != "":
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error(), "code": code})
	}

	logger.Error("Request failed", logger.F("error", err), logger.F("uri", c.Request().RequestURI))
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal error"})
}

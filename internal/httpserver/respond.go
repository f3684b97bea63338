package httpserver

import "github.com/labstack/echo/v4"

func errJSON(c echo.Context, status int, msg string, err error) error {
	body := ErrorResponse{Error: msg}
	if err != nil {
		body.Details = err.Error()
	}
	return c.JSON(status, body)
}

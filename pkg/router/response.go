package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gdbrns/go-whatsapp-pairing-bot/pkg/log"
)

type Response struct {
	Status  bool        `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details string      `json:"details,omitempty"`
}

func messageOrStatusText(code int, message string) string {
	if strings.TrimSpace(message) == "" {
		return http.StatusText(code)
	}
	return message
}

func logSuccess(c *fiber.Ctx, code int, message string) {
	if c.OriginalURL() == BaseURL || c.OriginalURL() == BaseURL+"/" {
		message = http.StatusText(code)
	}
	log.Print(c).Info(fmt.Sprintf("%d %v", code, message))
}

func logError(c *fiber.Ctx, code int, message string) {
	entry := log.Print(c)
	if code < http.StatusInternalServerError {
		entry.Warn(fmt.Sprintf("%d %v", code, message))
		return
	}
	entry.Error(fmt.Sprintf("%d %v", code, message))
}

func respondSuccess(c *fiber.Ctx, code int, message string, data interface{}) error {
	response := Response{
		Status:  true,
		Code:    code,
		Message: messageOrStatusText(code, message),
		Data:    data,
	}

	logSuccess(c, response.Code, response.Message)
	return c.Status(response.Code).JSON(response)
}

func respondError(c *fiber.Ctx, code int, message, details string) error {
	message = messageOrStatusText(code, message)
	response := Response{
		Status:  false,
		Code:    code,
		Message: message,
		Error:   message,
		Details: details,
	}

	if details != "" {
		logError(c, response.Code, response.Message+": "+details)
	} else {
		logError(c, response.Code, response.Message)
	}
	return c.Status(response.Code).JSON(response)
}

func ResponseSuccess(c *fiber.Ctx, message string) error {
	return respondSuccess(c, http.StatusOK, message, nil)
}

func ResponseSuccessWithData(c *fiber.Ctx, message string, data interface{}) error {
	return respondSuccess(c, http.StatusOK, message, data)
}

// ResponseJSON writes body as-is, for endpoints whose payload shape is
// fixed by existing clients rather than by the envelope.
func ResponseJSON(c *fiber.Ctx, code int, body interface{}) error {
	logSuccess(c, code, http.StatusText(code))
	return c.Status(code).JSON(body)
}

func ResponseSuccessWithHTML(c *fiber.Ctx, html string) error {
	logSuccess(c, http.StatusOK, http.StatusText(http.StatusOK))
	c.Type("html", "utf-8")
	return c.Status(http.StatusOK).SendString(html)
}

func ResponseNoContent(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

func ResponseBadRequest(c *fiber.Ctx, message string) error {
	return respondError(c, http.StatusBadRequest, message, "")
}

func ResponseUnauthorized(c *fiber.Ctx, message string) error {
	return respondError(c, http.StatusUnauthorized, message, "")
}

func ResponseNotFound(c *fiber.Ctx, message string) error {
	return respondError(c, http.StatusNotFound, message, "")
}

func ResponseTooManyRequests(c *fiber.Ctx, message string) error {
	return respondError(c, http.StatusTooManyRequests, message, "")
}

func ResponseInternalError(c *fiber.Ctx, message string) error {
	return respondError(c, http.StatusInternalServerError, message, "")
}

// ResponseInternalErrorWithDetails keeps the user-facing message stable and
// carries the underlying cause in the details field.
func ResponseInternalErrorWithDetails(c *fiber.Ctx, message string, details string) error {
	return respondError(c, http.StatusInternalServerError, message, details)
}

func ResponseServiceUnavailable(c *fiber.Ctx, message string) error {
	return respondError(c, http.StatusServiceUnavailable, message, "")
}

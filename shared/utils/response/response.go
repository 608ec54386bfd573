package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the single error kind handlers raise: an HTTP status code with
// a message and optional payload. It implements error so store and mail
// failures can flow through the same responder.
type APIError struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

func BadRequest(message string) *APIError {
	if message == "" {
		message = "Bad Request"
	}
	return NewAPIError(http.StatusBadRequest, message)
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "Unauthorized"
	}
	return NewAPIError(http.StatusUnauthorized, message)
}

func IncorrectCredentials(message string) *APIError {
	if message == "" {
		message = "Incorrect Credentials"
	}
	return NewAPIError(http.StatusUnauthorized, message)
}

func Forbidden(message string) *APIError {
	if message == "" {
		message = "Forbidden"
	}
	return NewAPIError(http.StatusForbidden, message)
}

func NotFound(message string) *APIError {
	if message == "" {
		message = "Not Found"
	}
	return NewAPIError(http.StatusNotFound, message)
}

func Conflict(message string) *APIError {
	if message == "" {
		message = "Conflict"
	}
	return NewAPIError(http.StatusConflict, message)
}

func InternalServerError(message string) *APIError {
	if message == "" {
		message = "Internal Server Error"
	}
	return NewAPIError(http.StatusInternalServerError, message)
}

// Envelope is the uniform response body: {status, message, data}
type Envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Success writes the success envelope with the given HTTP status
func Success(c *gin.Context, status int, data interface{}, message string) {
	if message == "" {
		message = "Success"
	}
	c.JSON(status, Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// Error writes any failure through the centralized responder. Unknown error
// types are treated as internal errors without leaking their details.
func Error(c *gin.Context, err error) {
	if apiErr, ok := err.(*APIError); ok {
		c.JSON(apiErr.Status, Envelope{
			Status:  apiErr.Status,
			Message: apiErr.Message,
			Data:    apiErr.Data,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, Envelope{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
	})
}

// AbortError writes the failure envelope and stops the middleware chain
func AbortError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

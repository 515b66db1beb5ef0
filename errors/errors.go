package errors

import (
	"fmt"
	"net/http"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is the API error type carried from the service layer to the
// HTTP surface. Status maps directly onto the response code.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// New creates a new Error
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)

	// chat-specific errors surfaced by the services layer
	ErrSelfConversation = New("a conversation requires two distinct participants", http.StatusBadRequest)
	ErrEmptyMessage     = New("message requires text content or a media url", http.StatusBadRequest)
	ErrNotParticipant   = New("user is not a participant of this conversation", http.StatusForbidden)
)

// ErrorHandler is plugged into the rate limit middleware on the send endpoint.
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message": "too many messages, try again in " + info.ResetTime.Format("15:04:05"),
	})
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/sportlinkhq/sportlink/errors"
	"github.com/sportlinkhq/sportlink/server/response"
)

// handleGetContactSuggestions lists identities the viewer may start a new
// conversation with. Eligibility is checked here only; existing
// conversations are never re-gated.
func (s *Server) handleGetContactSuggestions() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := currentUser(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		suggestions, err := s.AccessService.Suggestions(user.ID)
		if err != nil {
			response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "suggestions retrieved successfully", http.StatusOK, suggestions, nil)
	}
}

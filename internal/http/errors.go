package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"masark-engine/internal/domain"
	"masark-engine/internal/service"
)

// respondError maps core errors onto HTTP statuses: validation failures
// become 400s, guard violations 409s, missing rows 404s.
func respondError(c *gin.Context, err error) {
	var transition *domain.IllegalTransitionError
	switch {
	case errors.Is(err, pgx.ErrNoRows), errors.Is(err, service.ErrUnknownQuestion):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{
			"error": transition.Error(),
			"from":  transition.From,
			"to":    transition.To,
		})
	case errors.Is(err, domain.ErrInvalidOption),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrEmptyAnswerSet),
		errors.Is(err, domain.ErrScoreOutOfRange),
		errors.Is(err, domain.ErrDimensionMismatch),
		errors.Is(err, domain.ErrDimensionNotTied),
		errors.Is(err, service.ErrTieUnresolved),
		errors.Is(err, service.ErrInvalidTypeCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

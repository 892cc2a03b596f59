// Package radioapi implements the room token and join-log endpoints.
package radioapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/freqradio/freqradio/internal/middleware"
	"github.com/freqradio/freqradio/internal/radio"
)

// Handlers holds the dependencies for the radio endpoints.
type Handlers struct {
	svc *radio.Service
}

// NewHandlers creates radio endpoint handlers.
func NewHandlers(svc *radio.Service) *Handlers {
	return &Handlers{svc: svc}
}

// tokenRequest keeps the frequency value as raw JSON so the workflow can
// validate the exact decimal literal the client sent, string or number,
// without a float round-trip.
type tokenRequest struct {
	Frequency json.RawMessage `json:"frequency"`
}

// joinLogEntry is the wire shape of one join-log row.
type joinLogEntry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Frequency string    `json:"frequency"`
	JoinedAt  time.Time `json:"joined_at"`
}

// @Summary      Issue room token
// @Description  Issue a signed room access token for the frequency's room and record the join.
// @Tags         Radio
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "token, room"
// @Failure      400  {object}  map[string][]string     "frequency validation errors"
// @Failure      502  {object}  map[string]interface{}  "token service rejected the request"
// @Router       /token [post]
// TokenHandler issues a room access token.
// POST /token
func (h *Handlers) TokenHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req tokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		grant, err := h.svc.IssueToken(c.Request.Context(), middleware.CurrentUser(c), req.Frequency)
		if err != nil {
			writeTokenError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token": grant.Token,
			"room":  grant.Room,
		})
	}
}

// writeTokenError maps the workflow error taxonomy onto HTTP responses.
// Upstream rejections carry the issuer's message; configuration and
// persistence faults stay generic.
func writeTokenError(c *gin.Context, err error) {
	var (
		freqErr     *radio.InvalidFrequencyError
		upstreamErr *radio.UpstreamError
	)

	switch {
	case errors.As(err, &freqErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"frequency": []string{freqErr.Reason},
		})
	case errors.Is(err, radio.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, radio.ErrCredentialsUnset):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "LiveKit API credentials not set"})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": upstreamErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// @Summary      List join log
// @Description  Get the paginated room join audit log, newest first. Admin only.
// @Tags         Radio
// @Security     Bearer
// @Produce      json
// @Param        page       query  int  false  "Page number (default 1)"
// @Param        page_size  query  int  false  "Items per page, max 100 (default 20)"
// @Success      200  {object}  map[string]interface{}  "logs: [], pagination: map"
// @Failure      403  {object}  map[string]interface{}  "Forbidden"
// @Router       /logs [get]
// LogsHandler lists the join-audit log.
// GET /logs?page=1&page_size=20
func (h *Handlers) LogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(radio.DefaultPageSize)))

		if page < 1 {
			page = 1
		}
		if pageSize < 1 {
			pageSize = radio.DefaultPageSize
		}
		if pageSize > radio.MaxPageSize {
			pageSize = radio.MaxPageSize
		}

		entries, total, err := h.svc.ListJoinLog(c.Request.Context(), middleware.CurrentUser(c), page, pageSize)
		if err != nil {
			switch {
			case errors.Is(err, radio.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			case errors.Is(err, radio.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			return
		}

		logs := make([]joinLogEntry, 0, len(entries))
		for _, e := range entries {
			logs = append(logs, joinLogEntry{
				ID:        e.ID,
				Username:  e.Username,
				Frequency: e.Frequency,
				JoinedAt:  e.JoinedAt,
			})
		}

		totalPages := (total + pageSize - 1) / pageSize

		c.JSON(http.StatusOK, gin.H{
			"logs": logs,
			"pagination": gin.H{
				"page":        page,
				"page_size":   pageSize,
				"total":       total,
				"total_pages": totalPages,
			},
		})
	}
}

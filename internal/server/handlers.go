package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/law-makers/roomcheck/internal/booking"
	"github.com/law-makers/roomcheck/internal/reqctx"
)

// AvailableRoomsRequest selects the day and party size. GET requests may pass
// the fields as query parameters.
type AvailableRoomsRequest struct {
	Date      string `json:"date" form:"date"`
	GroupSize *uint8 `json:"group_size" form:"group_size"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type handler struct {
	lister  Lister
	started time.Time
}

func (h *handler) availableRooms(c *gin.Context) {
	date, groupSize, err := bindRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	results, err := h.lister.ListAvailableRooms(ctx, date, groupSize)
	if err != nil {
		err = reqctx.NewRequestError(ctx, err)
		_ = c.Error(err)
		resp := ErrorResponse{
			Error:     err.Error(),
			RequestID: reqctx.GetRequestContext(ctx).RequestID,
		}
		if kind, ok := booking.KindOf(err); ok {
			resp.Kind = string(kind)
		}
		c.JSON(StatusFor(err), resp)
		return
	}

	if results == nil {
		results = []booking.RoomAvailability{}
	}
	c.JSON(http.StatusOK, results)
}

func bindRequest(c *gin.Context) (time.Time, uint8, error) {
	var req AvailableRoomsRequest
	var err error
	if c.Request.ContentLength > 0 || c.Request.Method == http.MethodPost {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid request: %w", err)
	}

	if req.Date == "" {
		return time.Time{}, 0, errors.New("date is required")
	}
	date, err := time.Parse(booking.DateLayout, req.Date)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	if req.GroupSize == nil {
		return time.Time{}, 0, errors.New("group_size is required")
	}
	return date, *req.GroupSize, nil
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}

// StatusFor maps an extraction failure to an HTTP status. Every kind gets its
// own status; errors without a kind are 500.
func StatusFor(err error) int {
	kind, ok := booking.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case booking.KindSession:
		return http.StatusServiceUnavailable
	case booking.KindNavigate:
		return http.StatusBadGateway
	case booking.KindSearchButton:
		return http.StatusUnprocessableEntity
	case booking.KindQuery:
		return http.StatusFailedDependency
	case booking.KindClick:
		return http.StatusConflict
	case booking.KindText:
		return http.StatusExpectationFailed
	default:
		return http.StatusInternalServerError
	}
}

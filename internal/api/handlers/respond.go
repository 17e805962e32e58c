package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/assistidads/assist-lead-hub-sub000/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var (
		vErr     *domain.ValidationError
		fetchErr *domain.UpstreamFetchError
	)
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error body. Validation failures name the rejected
// field; server-side failures are logged.
func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(status, gin.H{"error": vErr.Message, "field": vErr.Field})
		return
	}

	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}

func sessionFrom(c *gin.Context) auth.Session {
	s, _ := auth.FromContext(c.Request.Context())
	return s
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

func parsePositiveIntWithDefault(value string, fallback int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return n
	}
	return fallback
}

func parseInt64List(value string) []int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]int64, 0, len(parts))
	for _, part := range parts {
		if id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}

// listQueryFromRequest reads the paging and sorting params shared by every
// list endpoint.
func listQueryFromRequest(c *gin.Context) (domain.ListQuery, int, int) {
	page := parsePositiveIntWithDefault(c.Query("page"), 1)
	pageSize := parsePositiveIntWithDefault(c.Query("page_size"), 50)
	if pageSize > domain.MaxRangeSize {
		pageSize = domain.MaxRangeSize
	}

	start, end := domain.PageRange(page, pageSize)
	q := domain.ListQuery{
		OrderBy:    strings.ToLower(strings.TrimSpace(c.Query("sort_field"))),
		Descending: strings.EqualFold(strings.TrimSpace(c.Query("sort_direction")), "desc"),
		RangeStart: start,
		RangeEnd:   end,
	}
	return q, page, pageSize
}

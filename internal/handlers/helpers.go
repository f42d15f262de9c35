package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mytro-app/backend/internal/models"
)

// getUserIDFromContext extracts the authenticated user ID from the JWT
// claims placed in the context by the auth middleware. Returns 0 when the
// request is unauthenticated.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// parseUintParam parses a numeric path parameter.
func parseUintParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), nil
}

// Cursor pagination on (created_at, id). The cursor is the pair of the last
// row on the previous page; an empty cursor means the first page.

// encodeCursor builds the opaque cursor of a row.
func encodeCursor(t time.Time, id uint) string {
	return fmt.Sprintf("%d_%d", t.UnixNano(), id)
}

// decodeCursor parses a cursor. An empty cursor yields the zero window
// (first page).
func decodeCursor(cursor string) (time.Time, uint, error) {
	if cursor == "" {
		return time.Time{}, 0, nil
	}
	var nanos int64
	var id uint64
	if _, err := fmt.Sscanf(cursor, "%d_%d", &nanos, &id); err != nil {
		return time.Time{}, 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid cursor")
	}
	return time.Unix(0, nanos), uint(id), nil
}

// parseQueryUint parses a numeric query parameter value.
func parseQueryUint(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// splitAndTrim splits on sep and trims whitespace from every piece.
func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// pageLimit clamps the limit query parameter to (0, max], defaulting it.
func pageLimit(c echo.Context, def, max int) int {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > max {
		limit = def
	}
	return limit
}

// internal/utils/params.go
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Query parameters are parsed and validated here, at the API boundary, so
// services only ever see typed values.

type PageParams struct {
	Take int
	Skip int
}

func ParsePageParams(c *gin.Context, defaultTake, maxTake int) (PageParams, error) {
	params := PageParams{Take: defaultTake}

	if raw := c.Query("take"); raw != "" {
		take, err := strconv.Atoi(raw)
		if err != nil || take < 0 {
			return params, fmt.Errorf("invalid take parameter %q", raw)
		}
		if take > maxTake {
			take = maxTake
		}
		params.Take = take
	}

	if raw := c.Query("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return params, fmt.Errorf("invalid skip parameter %q", raw)
		}
		params.Skip = skip
	}

	return params, nil
}

// ParseUUIDListParam parses a comma-separated list of ids from a query
// parameter. Absent parameter yields a nil slice.
func ParseUUIDListParam(c *gin.Context, name string) ([]uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q in %s", part, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ParseTimeParam accepts RFC 3339 timestamps or bare dates.
func ParseTimeParam(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid %s parameter %q", name, raw)
}

func ParseBoolParam(c *gin.Context, name string) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s parameter %q", name, raw)
	}
	return value, nil
}

// Paginate slices the presentation page out of a full result set. Summary
// statistics are always computed before this is applied.
func Paginate[T any](items []T, params PageParams) []T {
	if params.Skip >= len(items) {
		return []T{}
	}
	end := len(items)
	if params.Take > 0 && params.Skip+params.Take < end {
		end = params.Skip + params.Take
	}
	return items[params.Skip:end]
}

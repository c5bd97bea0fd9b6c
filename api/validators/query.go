package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/storerater-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseSort resolves the sort_by/sort_order query pair against a column
// whitelist. Unknown columns fall back to defaultCol so callers never
// interpolate raw client input into SQL.
func ParseSort(r *http.Request, allowed map[string]string, defaultCol string) (string, string) {
	col := defaultCol
	if raw := strings.TrimSpace(r.URL.Query().Get("sort_by")); raw != "" {
		if mapped, ok := allowed[raw]; ok {
			col = mapped
		}
	}

	order := "asc"
	if raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort_order"))); raw == "desc" {
		order = "desc"
	}
	return col, order
}

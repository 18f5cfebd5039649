package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"diaria/internal/core"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads and decodes the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func parseDate(value string) (core.Date, error) {
	if value == "" {
		return core.Date{}, errors.New("date is required")
	}
	d, err := core.ParseDate(value)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// parseMoney converts a decimal JSON number or string into cents.
func parseMoney(value json.Number) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(value.String())
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// queryInt parses an integer query parameter, falling back to def when
// absent. Values outside [min, max] are an error, not silently adjusted.
func queryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return parseIntInRange(name, raw, min, max)
}

// requiredQueryInt is queryInt without a fallback: the parameter must be
// present and inside [min, max].
func requiredQueryInt(r *http.Request, name string, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	return parseIntInRange(name, raw, min, max)
}

func parseIntInRange(name, raw string, min, max int) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%s %d out of range [%d, %d]", name, value, min, max)
	}
	return value, nil
}

func requiredQuery(r *http.Request, name string) (string, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	return value, nil
}

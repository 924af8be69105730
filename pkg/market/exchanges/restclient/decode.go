package restclient

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Number coerces a JSON value to a float. Strings holding numbers are
// accepted; missing, null, empty or non-numeric values yield nil.
func Number(r gjson.Result) *float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Float()
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		v = parsed
	default:
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// UnixMillis converts an epoch-milliseconds value to UTC time.
func UnixMillis(r gjson.Result) (time.Time, bool) {
	ms := Number(r)
	if ms == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(*ms)).UTC(), true
}

// Strings collects the string at path from every element of an array.
// Empty values are skipped.
func Strings(arr gjson.Result, path string) []string {
	items := arr.Array()
	out := make([]string, 0, len(items))
	for _, item := range items {
		value := strings.TrimSpace(item.Get(path).String())
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}

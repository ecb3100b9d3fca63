package lib

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/validation"
)

// ParseRecord flattens a JSON or form body into a validation record. Arrays
// are joined with commas and nested objects are lifted to the top level, so
// {"skills": ["go", "js"], "social": {"twitter": "x"}} reads as
// skills=go,js twitter=x.
func ParseRecord(c *fiber.Ctx) (validation.Record, error) {
	rec := validation.Record{}
	body := c.Body()
	if len(body) == 0 {
		return rec, nil
	}

	if !c.Is("json") {
		c.Request().PostArgs().VisitAll(func(key, value []byte) {
			rec[string(key)] = string(value)
		})
		return rec, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		if nested, ok := v.(map[string]interface{}); ok {
			for nk, nv := range nested {
				if _, taken := raw[nk]; !taken {
					if s, ok := flatten(nv); ok {
						rec[nk] = s
					}
				}
			}
			continue
		}
		if s, ok := flatten(v); ok {
			rec[k] = s
		}
	}
	return rec, nil
}

func flatten(v interface{}) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := flatten(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

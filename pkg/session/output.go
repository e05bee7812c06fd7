package session

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Encode serialises submitted values and returns the payload together with
// its content type.
func Encode(values map[string]any, format OutputFormat) ([]byte, string, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(formValues(values).Encode()), "application/x-www-form-urlencoded", nil
	case OutputFormatPrettyText:
		return []byte(pretty(values)), "text/plain", nil
	case OutputFormatJSON, "":
		payload, err := json.MarshalIndent(values, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("session: encode json: %w", err)
		}
		return payload, "application/json", nil
	default:
		return nil, "", fmt.Errorf("session: unknown output format %q", format)
	}
}

func formValues(values map[string]any) url.Values {
	out := url.Values{}
	for name, value := range values {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				out.Add(name, item)
			}
		case bool:
			if v {
				out.Set(name, "on")
			}
		default:
			out.Set(name, fmt.Sprint(v))
		}
	}
	return out
}

func pretty(values map[string]any) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		var rendered string
		switch v := values[name].(type) {
		case []string:
			rendered = strings.Join(v, ", ")
		case bool:
			rendered = strconv.FormatBool(v)
		default:
			rendered = fmt.Sprint(v)
		}
		fmt.Fprintf(&b, "%s: %s\n", name, rendered)
	}
	return b.String()
}

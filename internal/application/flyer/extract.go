package flyer

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/flyerhub/flyerd/internal/domain"
)

// extractJSONObject finds the first complete JSON object in a model reply.
// Replies may wrap the object in ```json fences or surround it with prose.
func extractJSONObject(reply string) ([]byte, bool) {
	s := []byte(strings.TrimSpace(reply))

	for start := bytes.IndexByte(s, '{'); start >= 0; {
		dec := json.NewDecoder(bytes.NewReader(s[start:]))
		var obj json.RawMessage
		if err := dec.Decode(&obj); err == nil && len(obj) > 0 && obj[0] == '{' {
			return obj, true
		}

		next := bytes.IndexByte(s[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// extractedKeys maps each descriptive field to its accepted wire names.
var extractedKeys = map[string][]string{
	"title":       {"title", "event_title", "name"},
	"description": {"description", "details"},
	"location":    {"location", "venue", "place"},
	"date":        {"date", "primary_date", "event_date"},
	"time":        {"time", "start_time", "hour"},
}

// decodeFields reads the descriptive fields leniently: non-string values are ignored.
func decodeFields(obj []byte) domain.ExtractedFields {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(obj, &raw); err != nil {
		return domain.ExtractedFields{}
	}

	get := func(field string) string {
		for _, key := range extractedKeys[field] {
			var s string
			if v, ok := raw[key]; ok && json.Unmarshal(v, &s) == nil {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
		return ""
	}

	return domain.ExtractedFields{
		Title:       get("title"),
		Description: get("description"),
		Location:    get("location"),
		Date:        get("date"),
		Time:        get("time"),
	}
}

package handler

import (
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"

	"github.com/flyerhub/flyerd/internal/application/event"
	"github.com/flyerhub/flyerd/internal/domain"
	"github.com/flyerhub/flyerd/internal/infrastructure/http/response"
)

// pageTokenScope prefixes the offset inside a page token, so a token minted
// for another listing is rejected instead of silently reinterpreted.
const pageTokenScope = "events:"

func encodePageToken(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte(pageTokenScope + strconv.Itoa(offset)))
}

func decodePageToken(token string) (int, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0, false
	}
	digits, ok := strings.CutPrefix(string(raw), pageTokenScope)
	if !ok {
		return 0, false
	}
	offset, err := strconv.Atoi(digits)
	if err != nil || offset < 0 {
		return 0, false
	}
	return offset, true
}

// nextPageToken returns nil on the last page.
func nextPageToken(page *domain.PagedEvents) *string {
	if !page.HasMore {
		return nil
	}
	token := encodePageToken(page.NextOffset)
	return &token
}

// parseListQuery reads include_expired, page_size and page_token.
// A zero Limit leaves the page size to the service defaults.
func parseListQuery(query url.Values) (event.ListEventsInput, *response.ErrorField) {
	var input event.ListEventsInput

	if raw := query.Get("include_expired"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return input, &response.ErrorField{Field: "include_expired", Issue: "must be true or false"}
		}
		input.IncludeExpired = v
	}

	if raw := query.Get("page_size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return input, &response.ErrorField{Field: "page_size", Issue: "must be a positive integer"}
		}
		input.Limit = v
	}

	if raw := query.Get("page_token"); raw != "" {
		offset, ok := decodePageToken(raw)
		if !ok {
			return input, &response.ErrorField{Field: "page_token", Issue: "is not a valid page token"}
		}
		input.Offset = offset
	}

	return input, nil
}

package warden

import (
	"encoding/json"
	"fmt"
)

// normalizeResponse turns a raw status/body pair into either the decoded JSON
// object or a classified *APIError. Exactly one of the two returns is set.
//
// Success means any 2xx status. A success body that is empty or not a JSON
// object still normalizes to a usable (empty) map: some endpoints return
// nothing of interest and callers only care that the call went through.
func normalizeResponse(status int, body []byte) (map[string]any, *APIError) {
	var details map[string]any
	if len(body) > 0 {
		// Parse failures are swallowed on purpose: plain-text error pages and
		// array bodies must not turn into parse errors of their own. The raw
		// body survives on the error for debugging.
		_ = json.Unmarshal(body, &details)
	}

	if status >= 200 && status < 300 {
		if details == nil {
			details = map[string]any{}
		}
		return details, nil
	}

	message := fmt.Sprintf("Request failed with status %d", status)
	if d, ok := details["detail"].(string); ok {
		message = d
	}
	return nil, &APIError{
		Message:    message,
		StatusCode: status,
		RawBody:    string(body),
		Details:    details,
	}
}

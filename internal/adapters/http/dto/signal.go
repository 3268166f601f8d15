package dto

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen11/vehicle-selfcheck/internal/domain"
)

// WaitParam is the long-poll query parameter.
const WaitParam = "wait"

// TopicList is the body of GET /v1/topics.
type TopicList struct {
	Topics []string `json:"topics"`
}

// ServiceList is the body of GET /v1/services.
type ServiceList struct {
	Services []string `json:"services"`
}

// ServiceStatus is the body of GET /v1/services/{id}.
type ServiceStatus struct {
	Service   string `json:"service"`
	Available bool   `json:"available"`
}

// ParseWait reads the wait query parameter. A missing value means maxWait;
// larger values are capped to it. Negative or malformed values are
// validation errors located at query.wait.
func ParseWait(r *http.Request, maxWait time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(WaitParam))
	if raw == "" {
		return maxWait, nil
	}

	wait, err := time.ParseDuration(raw)
	if err != nil {
		return 0, &domain.ValidationError{Fields: map[string]string{
			"query." + WaitParam: fmt.Sprintf("must be a duration such as 1s or 250ms, got %q", raw),
		}}
	}
	if wait < 0 {
		return 0, &domain.ValidationError{Fields: map[string]string{
			"query." + WaitParam: "must not be negative",
		}}
	}
	return min(wait, maxWait), nil
}

// SignalID validates a topic or service id taken from the request path.
// Leading and trailing slashes are dropped.
func SignalID(raw string) (string, error) {
	id := strings.Trim(raw, "/")
	if id == "" {
		return "", &domain.ValidationError{Fields: map[string]string{"path.id": "must not be empty"}}
	}
	if strings.Contains(id, "//") {
		return "", &domain.ValidationError{Fields: map[string]string{"path.id": "must not contain empty segments"}}
	}
	return id, nil
}

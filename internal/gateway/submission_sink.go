package gateway

import (
	"context"
	"encoding/json"
	"time"

	"examhall_backend/internal/model"
)

// SubmissionSink delivers finished submission records to the external
// persistence service.
type SubmissionSink struct {
	httpClient
}

func NewSubmissionSink(baseURL string, timeout time.Duration) *SubmissionSink {
	return &SubmissionSink{newHTTPClient(baseURL, timeout)}
}

// Send posts the record and returns the sink-assigned id when the sink
// echoes a stored copy. An empty id on success is fine; the record is still
// confirmed.
func (s *SubmissionSink) Send(ctx context.Context, record *model.SubmissionRecord) (string, error) {
	status, body, err := s.postJSON(ctx, "/submissions", record)
	if err != nil {
		return "", err
	}
	if status < 200 || status > 299 {
		return "", statusError("submission sink", status)
	}

	var echo struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(unwrapData(body), &echo); err != nil {
		// A confirmed send with an unreadable echo is still confirmed.
		return "", nil
	}
	return echo.ID, nil
}

package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"examhall_backend/internal/model"
	"examhall_backend/internal/util"
)

// TestSource fetches immutable test definitions by id.
type TestSource struct {
	httpClient
}

func NewTestSource(baseURL string, timeout time.Duration) *TestSource {
	return &TestSource{newHTTPClient(baseURL, timeout)}
}

func (s *TestSource) FetchTest(ctx context.Context, testID string) (*model.TestDefinition, error) {
	status, body, err := s.getJSON(ctx, "/tests/"+testID)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, util.ErrTestNotFound
	}
	if status != http.StatusOK {
		return nil, statusError("test source", status)
	}

	var test model.TestDefinition
	if err := json.Unmarshal(unwrapData(body), &test); err != nil {
		return nil, err
	}
	if test.ID == "" {
		test.ID = testID
	}

	// Default marks: a question is worth one mark unless the source says
	// otherwise, and carries no penalty unless one is explicitly present.
	for i := range test.Questions {
		if test.Questions[i].PositiveMark == 0 {
			test.Questions[i].PositiveMark = 1
		}
		if test.Questions[i].NegativeMark < 0 {
			test.Questions[i].NegativeMark = -test.Questions[i].NegativeMark
		}
	}

	return &test, nil
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"examhall_backend/internal/model"
	"examhall_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// TestProvider is the test-source side of the boundary, satisfied by
// gateway.TestSource and by fakes in tests.
type TestProvider interface {
	FetchTest(ctx context.Context, testID string) (*model.TestDefinition, error)
}

// TestService serves test definitions with a redis cache-aside in front of
// the test source. Definitions are immutable once published, so TTL-only
// invalidation is enough.
type TestService struct {
	Source TestProvider
	RDB    *redis.Client
	TTL    time.Duration
}

func NewTestService(source TestProvider, rdb *redis.Client, ttl time.Duration) *TestService {
	return &TestService{Source: source, RDB: rdb, TTL: ttl}
}

func cacheKey(testID string) string {
	return "examhall:test:" + testID
}

func (s *TestService) GetTest(ctx context.Context, testID string) (*model.TestDefinition, error) {
	if s.RDB != nil {
		cached, err := s.RDB.Get(ctx, cacheKey(testID)).Result()
		if err == nil {
			var test model.TestDefinition
			if err := json.Unmarshal([]byte(cached), &test); err == nil {
				return &test, nil
			}
			// 缓存内容损坏，回退到源
			s.RDB.Del(ctx, cacheKey(testID))
		}
	}

	test, err := s.Source.FetchTest(ctx, testID)
	if err != nil {
		return nil, err
	}

	if s.RDB != nil {
		if encoded, err := json.Marshal(test); err == nil {
			if err := s.RDB.Set(ctx, cacheKey(testID), encoded, s.TTL).Err(); err != nil {
				logger.Log.Warn("test cache write failed", zap.String("test", testID), zap.Error(err))
			}
		}
	}

	return test, nil
}

// PlayerQuestion is a question as shown to a learner during a live session:
// no correct options, no explanation.
type PlayerQuestion struct {
	ID      string                 `json:"id"`
	Content string                 `json:"content"`
	Options []model.QuestionOption `json:"options"`
}

type PlayerTestView struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Subject   string           `json:"subject"`
	Lesson    string           `json:"lesson"`
	Duration  int              `json:"duration"`
	Questions []PlayerQuestion `json:"questions"`
}

// PlayerView strips everything a learner must not see mid-session.
func PlayerView(test *model.TestDefinition) *PlayerTestView {
	view := &PlayerTestView{
		ID:        test.ID,
		Name:      test.Name,
		Subject:   test.Subject,
		Lesson:    test.Lesson,
		Duration:  test.Duration,
		Questions: make([]PlayerQuestion, len(test.Questions)),
	}
	for i, q := range test.Questions {
		view.Questions[i] = PlayerQuestion{
			ID:      q.ID,
			Content: q.Content,
			Options: q.Options,
		}
	}
	return view
}

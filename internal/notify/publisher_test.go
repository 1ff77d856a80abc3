package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	apperrors "github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/notify"
)

var at = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

func sampleEvent() initiative.Event {
	return initiative.Event{
		Type:      initiative.EventAdvanced,
		RoomID:    7,
		Round:     2,
		TurnIndex: 1,
		Active:    true,
		Current: &initiative.Entry{
			ID:            11,
			Key:           initiative.Key{RoomID: 7, CharacterID: 3, Round: 2},
			CharacterName: "Orla",
			Roll:          14,
			Bonus:         2,
			Total:         16,
			CurrentTurn:   true,
		},
		At: at,
	}
}

func TestChannel(t *testing.T) {
	assert.Equal(t, "room:7:initiative", notify.Channel("", 7))
	assert.Equal(t, "tk:room:7:initiative", notify.Channel("tk", 7))
}

func TestNewPublisher_Validates(t *testing.T) {
	_, err := notify.NewPublisher(&notify.Config{Logger: zap.NewNop()})
	assert.True(t, apperrors.IsInvalidArgument(err))
	_, err = notify.NewPublisher(nil)
	assert.True(t, apperrors.IsInvalidArgument(err))
}

type PublisherMockSuite struct {
	suite.Suite
	client *redis.Client
	mock   redismock.ClientMock
	pub    *notify.Publisher
}

func TestPublisherMockSuite(t *testing.T) {
	suite.Run(t, new(PublisherMockSuite))
}

func (s *PublisherMockSuite) SetupTest() {
	s.client, s.mock = redismock.NewClientMock()
	var err error
	s.pub, err = notify.NewPublisher(&notify.Config{
		Client:    s.client,
		Logger:    zap.NewNop(),
		Prefix:    "tk",
		Retention: time.Hour,
		NewID:     func() string { return "evt-1" },
	})
	s.Require().NoError(err)
}

func (s *PublisherMockSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *PublisherMockSuite) payload() []byte {
	b, err := json.Marshal(notify.Envelope{ID: "evt-1", Event: sampleEvent()})
	s.Require().NoError(err)
	return b
}

func (s *PublisherMockSuite) TestPublish_SetsLatestThenPublishes() {
	s.mock.ExpectSet("tk:room:7:initiative:last", s.payload(), time.Hour).SetVal("OK")
	s.mock.ExpectPublish("tk:room:7:initiative", s.payload()).SetVal(2)

	s.NoError(s.pub.Publish(context.Background(), sampleEvent()))
}

func (s *PublisherMockSuite) TestPublish_StoreFailure() {
	s.mock.ExpectSet("tk:room:7:initiative:last", s.payload(), time.Hour).SetErr(errors.New("connection refused"))

	err := s.pub.Publish(context.Background(), sampleEvent())
	s.Error(err)
	s.Contains(err.Error(), "storing latest event")
}

func (s *PublisherMockSuite) TestPublish_BroadcastFailure() {
	s.mock.ExpectSet("tk:room:7:initiative:last", s.payload(), time.Hour).SetVal("OK")
	s.mock.ExpectPublish("tk:room:7:initiative", s.payload()).SetErr(errors.New("readonly replica"))

	err := s.pub.Publish(context.Background(), sampleEvent())
	s.Error(err)
	s.Contains(err.Error(), "publishing event")
}

func (s *PublisherMockSuite) TestLast_NoneRetained() {
	s.mock.ExpectGet("tk:room:9:initiative:last").RedisNil()

	env, err := s.pub.Last(context.Background(), 9)
	s.NoError(err)
	s.Nil(env)
}

func TestPublisher_MiniredisRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	pub, err := notify.NewPublisher(&notify.Config{Client: client, Logger: zap.NewNop()})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := notify.Subscribe(ctx, client, "", 7)
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, pub.Publish(ctx, sampleEvent()))

	got, err := sub.Next(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, initiative.EventAdvanced, got.Type)
	assert.Equal(t, int64(7), got.RoomID)
	require.NotNil(t, got.Current)
	assert.Equal(t, "Orla", got.Current.CharacterName)
	assert.True(t, got.At.Equal(at))

	last, err := pub.Last(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, got.ID, last.ID)
	assert.True(t, mr.Exists("room:7:initiative:last"))
	assert.Greater(t, mr.TTL("room:7:initiative:last"), time.Duration(0))
}

package grpcapi_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	apperrors "github.com/cory-johannsen/turnkeeper/internal/errors"
	"github.com/cory-johannsen/turnkeeper/internal/game/character"
	"github.com/cory-johannsen/turnkeeper/internal/game/dice"
	"github.com/cory-johannsen/turnkeeper/internal/game/initiative"
	"github.com/cory-johannsen/turnkeeper/internal/game/room"
	"github.com/cory-johannsen/turnkeeper/internal/storage/memory"
	"github.com/cory-johannsen/turnkeeper/internal/transport/grpcapi"
)

const (
	master int64 = 1
	player int64 = 2
)

// fixedSource always rolls the same face, so queues fall back to name order.
type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

type ServerTestSuite struct {
	suite.Suite

	ctx    context.Context
	store  *memory.Store
	room   *room.Room
	alice  *character.Character
	bob    *character.Character
	conn   *grpc.ClientConn
	client *grpcapi.Client
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.ctx = context.Background()
	logger := zaptest.NewLogger(s.T())

	s.store = memory.New()
	var err error
	s.room, err = s.store.CreateRoom(&room.Room{Name: "Keep", MasterID: master, Open: true})
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddPlayer(s.room.ID, player))
	s.alice = s.addCharacter("Alice", player)
	s.bob = s.addCharacter("Bob", master)

	engine, err := initiative.NewEngine(&initiative.Config{
		Store:  s.store,
		Roller: dice.NewLoggedRoller(fixedSource(9), zap.NewNop()),
		Logger: logger,
	})
	s.Require().NoError(err)
	handler, err := grpcapi.NewHandler(&grpcapi.HandlerConfig{Engine: engine})
	s.Require().NoError(err)
	srv, err := grpcapi.NewServer(&grpcapi.ServerConfig{Handler: handler, Logger: logger})
	s.Require().NoError(err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()

	s.conn, err = grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	s.Require().NoError(err)
	s.client = grpcapi.NewClient(s.conn)

	s.T().Cleanup(func() {
		_ = s.client.Close()
		srv.Stop(time.Second)
	})
}

func (s *ServerTestSuite) addCharacter(name string, owner int64) *character.Character {
	c, err := s.store.CreateCharacter(character.New(owner, name, character.TypePlayer))
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddToRoster(s.room.ID, c.ID))
	return c
}

func (s *ServerTestSuite) TestTurnCycle() {
	m := initiative.Actor{UserID: master}

	queue, err := s.client.StartInitiative(s.ctx, m, s.room.ID)
	s.Require().NoError(err)
	s.Require().Len(queue, 2)
	s.Equal("Alice", queue[0].CharacterName)
	s.True(queue[0].CurrentTurn)
	s.Equal(10, queue[0].Roll)

	next, err := s.client.NextTurn(s.ctx, m, s.room.ID)
	s.Require().NoError(err)
	s.Require().NotNil(next)
	s.Equal("Bob", next.CharacterName)

	cur, err := s.client.CurrentTurn(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.Equal(next.ID, cur.ID)

	snap, err := s.client.Snapshot(s.ctx, s.room.ID)
	s.Require().NoError(err)
	s.True(snap.Turn.Active)
	s.Equal(1, snap.Turn.Round)
	s.Equal(1, snap.Turn.TurnIndex)
	s.Len(snap.Queue, 2)

	s.Require().NoError(s.client.ResetInitiative(s.ctx, m, s.room.ID))
	cur, err = s.client.NextTurn(s.ctx, m, s.room.ID)
	s.Require().NoError(err)
	s.Nil(cur)
}

func (s *ServerTestSuite) TestPlayerRollsOwnCharacter() {
	p := initiative.Actor{UserID: player}

	entry, err := s.client.RollForCharacter(s.ctx, p, s.room.ID, s.alice.ID)
	s.Require().NoError(err)
	s.Equal(s.alice.ID, entry.CharacterID)

	_, err = s.client.RollForCharacter(s.ctx, p, s.room.ID, s.bob.ID)
	s.True(apperrors.IsPermissionDenied(err), "got %v", err)

	_, err = s.client.StartInitiative(s.ctx, p, s.room.ID)
	s.True(apperrors.IsPermissionDenied(err), "got %v", err)
}

func (s *ServerTestSuite) TestErrorsCrossTheWire() {
	_, err := s.client.Queue(s.ctx, 999)
	s.True(apperrors.IsNotFound(err), "got %v", err)

	_, err = s.client.RollForRoom(s.ctx, initiative.Actor{UserID: master}, 0)
	s.True(apperrors.IsInvalidArgument(err), "got %v", err)
}

func (s *ServerTestSuite) TestMissingActorIsUnauthenticated() {
	err := s.conn.Invoke(s.ctx, grpcapi.FullMethod(grpcapi.MethodStartInitiative),
		&grpcapi.RoomRequest{RoomID: s.room.ID}, &grpcapi.QueueResponse{},
		grpc.CallContentSubtype("json"))
	s.Equal(codes.Unauthenticated, status.Code(err))
}

func (s *ServerTestSuite) TestHealth() {
	st, err := s.client.Health(s.ctx)
	s.Require().NoError(err)
	s.Equal(grpc_health_v1.HealthCheckResponse_SERVING, st)
}

func TestNewServer_Validation(t *testing.T) {
	_, err := grpcapi.NewServer(nil)
	assert.True(t, apperrors.IsInvalidArgument(err))

	_, err = grpcapi.NewServer(&grpcapi.ServerConfig{Logger: zap.NewNop()})
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestDial_ReturnsClient(t *testing.T) {
	c, err := grpcapi.Dial("127.0.0.1:0")
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
	"github.com/mkanda/liveroom-services/internal/roomsvc/service"
	"github.com/mkanda/liveroom-services/internal/roomsvc/store/memstore"
)

// eventRecorder captures lifecycle notifications instead of
// publishing them.
type eventRecorder struct {
	created   []int64
	started   []int64
	dissolved []int64
}

func (e *eventRecorder) RoomCreated(room *models.Room) { e.created = append(e.created, room.ID) }
func (e *eventRecorder) RoomStarted(roomID int64)      { e.started = append(e.started, roomID) }
func (e *eventRecorder) RoomDissolved(roomID int64)    { e.dissolved = append(e.dissolved, roomID) }

type fixture struct {
	users  *service.UserService
	rooms  *service.RoomService
	store  *memstore.Store
	events *eventRecorder
}

func newFixture() *fixture {
	mem := memstore.New()
	events := &eventRecorder{}
	return &fixture{
		users:  service.NewUserService(mem),
		rooms:  service.NewRoomService(mem, events),
		store:  mem,
		events: events,
	}
}

func (f *fixture) register(t *testing.T, name string) int64 {
	t.Helper()

	token, err := f.users.Register(context.Background(), name, 1000)
	require.NoError(t, err)
	user, err := f.users.ResolveToken(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, user)
	return user.ID
}

func TestFullPlaySession(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	userA := f.register(t, "alice")
	userB := f.register(t, "bob")

	roomID, err := f.rooms.Create(ctx, userA, 1, models.LiveDifficultyNormal)
	require.NoError(t, err)
	assert.Equal(t, []int64{roomID}, f.events.created)

	res, err := f.rooms.Join(ctx, roomID, userB, models.LiveDifficultyHard)
	require.NoError(t, err)
	require.Equal(t, models.JoinRoomOk, res)

	status, roster, err := f.rooms.Wait(ctx, roomID, userB)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusWaiting, status)
	require.Len(t, roster, 2)
	assert.Equal(t, userA, roster[0].UserID)
	assert.True(t, roster[0].IsHost)
	assert.False(t, roster[0].IsMe)
	assert.Equal(t, userB, roster[1].UserID)
	assert.False(t, roster[1].IsHost)
	assert.True(t, roster[1].IsMe)
	assert.Equal(t, models.LiveDifficultyHard, roster[1].SelectDifficulty)

	// only the host's start button works
	require.NoError(t, f.rooms.Start(ctx, roomID, userB))
	status, _, err = f.rooms.Wait(ctx, roomID, userB)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusWaiting, status)

	require.NoError(t, f.rooms.Start(ctx, roomID, userA))
	status, _, err = f.rooms.Wait(ctx, roomID, userA)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusLiveStart, status)
	assert.Equal(t, []int64{roomID}, f.events.started)

	// pressing start again changes nothing
	require.NoError(t, f.rooms.Start(ctx, roomID, userA))
	status, _, err = f.rooms.Wait(ctx, roomID, userA)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusLiveStart, status)
	assert.Equal(t, []int64{roomID}, f.events.started)

	require.NoError(t, f.rooms.End(ctx, roomID, userA, []int{10, 5, 2}, 9000))

	// B has not submitted yet, the ranking is withheld
	results, err := f.rooms.Result(ctx, roomID)
	require.NoError(t, err)
	assert.Nil(t, results)

	require.NoError(t, f.rooms.End(ctx, roomID, userB, []int{8, 4, 1}, 7500))

	results, err = f.rooms.Result(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, userA, results[0].UserID)
	assert.Equal(t, int64(9000), results[0].Score)
	assert.Equal(t, []int{10, 5, 2}, results[0].JudgeCountList)
	assert.Equal(t, userB, results[1].UserID)
	assert.Equal(t, int64(7500), results[1].Score)
}

func TestJoinFullRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	owner := f.register(t, "owner")
	roomID, err := f.rooms.Create(ctx, owner, 1, models.LiveDifficultyNormal)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		uid := f.register(t, "filler")
		res, err := f.rooms.Join(ctx, roomID, uid, models.LiveDifficultyNormal)
		require.NoError(t, err)
		require.Equal(t, models.JoinRoomOk, res)
	}

	late := f.register(t, "latecomer")
	res, err := f.rooms.Join(ctx, roomID, late, models.LiveDifficultyNormal)
	require.NoError(t, err)
	assert.Equal(t, models.JoinRoomFull, res)

	// no state change: still 4 of 4, still waiting
	status, roster, err := f.rooms.Wait(ctx, roomID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusWaiting, status)
	assert.Len(t, roster, 4)
}

func TestOwnerLeaveDissolvesRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	owner := f.register(t, "owner")
	other := f.register(t, "other")

	roomID, err := f.rooms.Create(ctx, owner, 5, models.LiveDifficultyNormal)
	require.NoError(t, err)

	require.NoError(t, f.rooms.Leave(ctx, roomID, owner))
	assert.Equal(t, []int64{roomID}, f.events.dissolved)

	status, _, err := f.rooms.Wait(ctx, roomID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusDissolution, status)

	res, err := f.rooms.Join(ctx, roomID, other, models.LiveDifficultyNormal)
	require.NoError(t, err)
	assert.Equal(t, models.JoinRoomDisbanded, res)

	// dissolved rooms are not listed
	summaries, err := f.rooms.List(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestMemberLeaveKeepsRoomAlive(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	owner := f.register(t, "owner")
	other := f.register(t, "other")

	roomID, err := f.rooms.Create(ctx, owner, 5, models.LiveDifficultyNormal)
	require.NoError(t, err)

	res, err := f.rooms.Join(ctx, roomID, other, models.LiveDifficultyNormal)
	require.NoError(t, err)
	require.Equal(t, models.JoinRoomOk, res)

	require.NoError(t, f.rooms.Leave(ctx, roomID, other))
	assert.Empty(t, f.events.dissolved)

	status, roster, err := f.rooms.Wait(ctx, roomID, owner)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusWaiting, status)
	require.Len(t, roster, 1)
	assert.Equal(t, owner, roster[0].UserID)
}

func TestResultAfterSubmitterLeaves(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	owner := f.register(t, "owner")
	other := f.register(t, "other")

	roomID, err := f.rooms.Create(ctx, owner, 5, models.LiveDifficultyNormal)
	require.NoError(t, err)
	res, err := f.rooms.Join(ctx, roomID, other, models.LiveDifficultyHard)
	require.NoError(t, err)
	require.Equal(t, models.JoinRoomOk, res)
	require.NoError(t, f.rooms.Start(ctx, roomID, owner))

	require.NoError(t, f.rooms.End(ctx, roomID, other, []int{9, 3, 0}, 8200))
	require.NoError(t, f.rooms.Leave(ctx, roomID, other))

	// the remaining counted member has not submitted
	results, err := f.rooms.Result(ctx, roomID)
	require.NoError(t, err)
	assert.Nil(t, results)

	require.NoError(t, f.rooms.End(ctx, roomID, owner, []int{10, 1, 0}, 9100))

	// both submissions surface, including the member who left
	results, err = f.rooms.Result(ctx, roomID)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, owner, results[0].UserID)
	assert.Equal(t, other, results[1].UserID)
}

func TestListReportsCounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	owner := f.register(t, "owner")
	other := f.register(t, "other")

	roomID, err := f.rooms.Create(ctx, owner, 9, models.LiveDifficultyNormal)
	require.NoError(t, err)
	_, err = f.rooms.Join(ctx, roomID, other, models.LiveDifficultyNormal)
	require.NoError(t, err)

	summaries, err := f.rooms.List(ctx, 9)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, roomID, summaries[0].RoomID)
	assert.Equal(t, int64(9), summaries[0].LiveID)
	assert.Equal(t, 2, summaries[0].JoinedUserCount)
	assert.Equal(t, models.RoomMaxUserCount, summaries[0].MaxUserCount)
}

func TestUnknownRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	caller := f.register(t, "caller")

	_, _, err := f.rooms.Wait(ctx, 404, caller)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)

	err = f.rooms.End(ctx, 404, caller, []int{1}, 1)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)

	_, err = f.rooms.Result(ctx, 404)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)

	err = f.rooms.Leave(ctx, 404, caller)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)

	// join reports disbanded rather than an error
	res, err := f.rooms.Join(ctx, 404, caller, models.LiveDifficultyNormal)
	require.NoError(t, err)
	assert.Equal(t, models.JoinRoomDisbanded, res)
}

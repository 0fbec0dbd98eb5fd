package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkanda/liveroom-services/internal/roomsvc/service"
	"github.com/mkanda/liveroom-services/internal/roomsvc/store/memstore"
)

func TestRegisterAndResolve(t *testing.T) {
	ctx := context.Background()
	users := service.NewUserService(memstore.New())

	token, err := users.Register(ctx, "alice", 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := users.ResolveToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, int64(42), user.LeaderCardID)

	// tokens are unique per registration
	token2, err := users.Register(ctx, "alice", 42)
	require.NoError(t, err)
	assert.NotEqual(t, token, token2)
}

func TestResolveUnknownToken(t *testing.T) {
	users := service.NewUserService(memstore.New())

	user, err := users.ResolveToken(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	users := service.NewUserService(memstore.New())

	token, err := users.Register(ctx, "alice", 42)
	require.NoError(t, err)
	user, err := users.ResolveToken(ctx, token)
	require.NoError(t, err)

	require.NoError(t, users.Update(ctx, user.ID, "alicia", 77))

	user, err = users.ResolveToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alicia", user.Name)
	assert.Equal(t, int64(77), user.LeaderCardID)
}

func TestUpdateUnknownUser(t *testing.T) {
	users := service.NewUserService(memstore.New())

	err := users.Update(context.Background(), 12345, "ghost", 0)
	assert.Error(t, err)
}

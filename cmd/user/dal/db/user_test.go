package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VidTube.com/cmd/model"
	"VidTube.com/cmd/user/dal/db"
	"VidTube.com/pkg/database/dbtest"
)

func TestGetProfilesSkipsMissing(t *testing.T) {
	db.Init(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, db.CreateUser(ctx, &model.User{ID: 1, Username: "alice", FullName: "Alice A", Avatar: "a.png"}))

	profiles, err := db.GetProfiles(ctx, []int64{1, 2, 1})
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "alice", profiles[1].Username)
	assert.Nil(t, profiles[2])

	ok, err := db.IsUserExist(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWatchHistoryIsASet(t *testing.T) {
	db.Init(dbtest.Open(t))
	ctx := context.Background()

	require.NoError(t, db.AddWatchHistory(ctx, 1, 100))
	require.NoError(t, db.AddWatchHistory(ctx, 1, 100))
	require.NoError(t, db.AddWatchHistory(ctx, 1, 101))

	list, err := db.GetWatchHistory(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{100, 101}, list)
}

package bootstrap

import (
	"os"
	"path/filepath"
	"testing"

	"socialpulse/internal/api"
	"socialpulse/internal/config"
	"socialpulse/internal/mockdata"
	"socialpulse/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:             "test",
		APIBaseURL:      "http://127.0.0.1:1/test",
		APIRetries:      0,
		TopUsersLimit:   5,
		FeedPollSeconds: 10,
		CommentUserID:   1,
	}
}

func TestNewRuntime_CommentPolicyFollowsFlag(t *testing.T) {
	client := api.NewClient(api.DefaultOptions("http://127.0.0.1:1/test", ""))

	rt := NewRuntime(testConfig(), client, nil)
	assert.Equal(t, api.CommentOptimistic, rt.Comments.CommentPolicy())
	assert.False(t, rt.Cache.Enabled())

	cfg := testConfig()
	cfg.FeatureFlags = "strict_comments=on"
	rt = NewRuntime(cfg, client, nil)
	assert.Equal(t, api.CommentStrict, rt.Comments.CommentPolicy())
	assert.Equal(t, api.CommentOptimistic, rt.API.CommentPolicy())
	assert.NoError(t, rt.Close())
}

func TestInitRuntime_LoadsMockDataFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mock.yml")
	ds := &mockdata.Dataset{Users: []models.User{{ID: 42, Username: "answer", PostCount: 7}}}
	require.NoError(t, ds.Write(path))

	cfg := testConfig()
	cfg.MockDataFile = path

	rt, err := InitRuntime(cfg, Options{SkipRedis: true})
	require.NoError(t, err)
	assert.Nil(t, rt.Redis)
	require.Len(t, rt.API.Mock().Users, 1)
	assert.Equal(t, 42, rt.API.Mock().Users[0].ID)
}

func TestInitRuntime_MissingMockDataFile(t *testing.T) {
	cfg := testConfig()
	cfg.MockDataFile = filepath.Join(t.TempDir(), "absent.yml")

	_, err := InitRuntime(cfg, Options{SkipRedis: true})
	assert.Error(t, err)
	_, statErr := os.Stat(cfg.MockDataFile)
	assert.True(t, os.IsNotExist(statErr))
}

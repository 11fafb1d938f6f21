package mockdata

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_MaxCommentPostsIncludesTies(t *testing.T) {
	t.Parallel()

	posts := Default().MaxCommentPosts()

	require.Len(t, posts, 2)
	assert.Equal(t, 1, posts[0].ID)
	assert.Equal(t, 3, posts[1].ID)
	for _, p := range posts {
		assert.Equal(t, 15, p.CommentCount)
	}
}

func TestMaxCommentPosts_EmptyDataset(t *testing.T) {
	t.Parallel()

	ds := &Dataset{}
	posts := ds.MaxCommentPosts()
	assert.NotNil(t, posts)
	assert.Empty(t, posts)
}

func TestDefault_PostsByNewestDoesNotMutateFixture(t *testing.T) {
	t.Parallel()

	ds := Default()
	sorted := ds.PostsByNewest()

	var got []int
	for _, p := range sorted {
		got = append(got, p.ID)
	}
	assert.Equal(t, []int{5, 4, 3, 2, 1}, got)
	assert.Equal(t, 1, ds.Posts[0].ID, "fixture order must be preserved")
}

func TestDefault_PostsForUser(t *testing.T) {
	t.Parallel()

	ds := Default()

	user1 := ds.PostsForUser(1)
	require.Len(t, user1, 2)
	assert.Equal(t, 1, user1[0].ID)
	assert.Equal(t, 4, user1[1].ID)

	unknown := ds.PostsForUser(42)
	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
}

func TestDefault_TopUsersReturnsCopy(t *testing.T) {
	t.Parallel()

	ds := Default()
	users := ds.TopUsers()
	require.Len(t, users, 5)
	users[0].PostCount = 0

	assert.Equal(t, 25, ds.Users[0].PostCount)
}

func TestWriteAndLoad_RoundTripsFixtureFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mock.yml")
	require.NoError(t, Default().Write(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, loaded.Users, 5)
	assert.Len(t, loaded.Posts, 5)
	assert.Len(t, loaded.PostsForUser(1), 2)
	assert.True(t, loaded.Posts[2].CreatedAt.Equal(time.Date(2023, time.July, 3, 12, 0, 0, 0, time.UTC)))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestGenerate_PostCountsMatchPosts(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	ds := Generate(GenerateOptions{Users: 4, Posts: 30, Seed: 7, Now: now})

	require.Len(t, ds.Users, 4)
	require.Len(t, ds.Posts, 30)

	total := 0
	for i, u := range ds.Users {
		total += u.PostCount
		assert.Len(t, ds.UserPosts[u.ID], u.PostCount)
		if i > 0 {
			assert.GreaterOrEqual(t, ds.Users[i-1].PostCount, u.PostCount)
		}
	}
	assert.Equal(t, 30, total)

	for _, p := range ds.Posts {
		assert.False(t, p.CreatedAt.After(now))
		assert.NotEmpty(t, p.Title)
	}
}

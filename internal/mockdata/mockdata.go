// Package mockdata holds the static dataset served when the remote API is
// unreachable.
package mockdata

import (
	"fmt"
	"os"
	"sort"
	"time"

	"socialpulse/internal/models"

	"gopkg.in/yaml.v3"
)

// Dataset is a fallback fixture. It is read-only once constructed; every query
// returns a copy.
type Dataset struct {
	Users     []models.User         `yaml:"users"`
	Posts     []models.Post         `yaml:"posts"`
	UserPosts map[int][]models.Post `yaml:"userPosts"`
}

func day(d int) time.Time {
	return time.Date(2023, time.July, d, 12, 0, 0, 0, time.UTC)
}

// Default returns the built-in fixture.
func Default() *Dataset {
	posts := []models.Post{
		{ID: 1, UserID: 1, Username: "user1", Title: "First Post", Body: "This is the first post content", CommentCount: 15, CreatedAt: day(1)},
		{ID: 2, UserID: 2, Username: "user2", Title: "Second Post", Body: "This is the second post content", CommentCount: 10, CreatedAt: day(2)},
		{ID: 3, UserID: 3, Username: "user3", Title: "Third Post", Body: "This is the third post content", CommentCount: 15, CreatedAt: day(3)},
		{ID: 4, UserID: 1, Username: "user1", Title: "Fourth Post", Body: "This is the fourth post content", CommentCount: 5, CreatedAt: day(4)},
		{ID: 5, UserID: 4, Username: "user4", Title: "Fifth Post", Body: "This is the fifth post content", CommentCount: 3, CreatedAt: day(5)},
	}

	return &Dataset{
		Users: []models.User{
			{ID: 1, Username: "user1", PostCount: 25},
			{ID: 2, Username: "user2", PostCount: 18},
			{ID: 3, Username: "user3", PostCount: 15},
			{ID: 4, Username: "user4", PostCount: 12},
			{ID: 5, Username: "user5", PostCount: 10},
		},
		Posts: posts,
		UserPosts: map[int][]models.Post{
			1: {posts[0], posts[3]},
		},
	}
}

// Load reads a YAML fixture file.
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mock data %s: %w", path, err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("decode mock data %s: %w", path, err)
	}
	if ds.UserPosts == nil {
		ds.UserPosts = map[int][]models.Post{}
	}
	return &ds, nil
}

// Write saves the dataset as a YAML fixture file.
func (d *Dataset) Write(path string) error {
	raw, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode mock data: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write mock data %s: %w", path, err)
	}
	return nil
}

// TopUsers returns the users exactly as stored; the fixture is pre-sorted.
func (d *Dataset) TopUsers() []models.User {
	return models.CloneUsers(d.Users)
}

// MaxCommentPosts returns every post tied at the highest comment count.
func (d *Dataset) MaxCommentPosts() []models.Post {
	out := []models.Post{}
	if len(d.Posts) == 0 {
		return out
	}

	highest := d.Posts[0].CommentCount
	for _, p := range d.Posts[1:] {
		if p.CommentCount > highest {
			highest = p.CommentCount
		}
	}
	for _, p := range d.Posts {
		if p.CommentCount == highest {
			out = append(out, p)
		}
	}
	return out
}

// PostsByNewest returns the posts sorted by creation time, newest first.
func (d *Dataset) PostsByNewest() []models.Post {
	out := models.ClonePosts(d.Posts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// PostsForUser returns the fixture posts of one user, or an empty list.
func (d *Dataset) PostsForUser(userID int) []models.Post {
	return models.ClonePosts(d.UserPosts[userID])
}

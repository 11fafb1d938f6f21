package mockdata

import (
	"sort"
	"time"

	"socialpulse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

// GenerateOptions controls the size and shape of a generated dataset.
type GenerateOptions struct {
	Users       int
	Posts       int
	MaxComments int
	MaxDays     int
	// Seed makes the output reproducible when non-zero.
	Seed int64
	Now  time.Time
}

// Generate builds a fake dataset. Post counts of the users match the posts that
// were generated for them, and users are stored ranked by post count.
func Generate(opts GenerateOptions) *Dataset {
	if opts.Users <= 0 {
		opts.Users = 5
	}
	if opts.Posts <= 0 {
		opts.Posts = 20
	}
	if opts.MaxComments <= 0 {
		opts.MaxComments = 30
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	faker := gofakeit.New(opts.Seed)

	users := make([]models.User, opts.Users)
	for i := range users {
		users[i] = models.User{ID: i + 1, Username: faker.Username()}
	}

	ds := &Dataset{UserPosts: map[int][]models.Post{}}
	for i := 0; i < opts.Posts; i++ {
		author := &users[faker.Number(0, opts.Users-1)]
		age := time.Duration(faker.Number(0, opts.MaxDays*24*60)) * time.Minute
		p := models.Post{
			ID:           i + 1,
			UserID:       author.ID,
			Username:     author.Username,
			Title:        faker.Sentence(5),
			Body:         faker.Paragraph(1, 3, 12, " "),
			CommentCount: faker.Number(0, opts.MaxComments),
			CreatedAt:    opts.Now.Add(-age).Truncate(time.Second),
		}
		author.PostCount++
		ds.Posts = append(ds.Posts, p)
		ds.UserPosts[author.ID] = append(ds.UserPosts[author.ID], p)
	}

	sort.SliceStable(users, func(i, j int) bool {
		return users[i].PostCount > users[j].PostCount
	})
	ds.Users = users
	return ds
}

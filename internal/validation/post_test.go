package validation

import (
	"strings"
	"testing"

	"socialpulse/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestValidateNewPost(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		post    models.NewPost
		wantErr bool
	}{
		{"Valid", models.NewPost{UserID: 1, Title: "Hello", Body: "World"}, false},
		{"Missing User", models.NewPost{Title: "Hello", Body: "World"}, true},
		{"Blank Title", models.NewPost{UserID: 1, Title: "  ", Body: "World"}, true},
		{"Blank Body", models.NewPost{UserID: 1, Title: "Hello", Body: "\n"}, true},
		{"Title At Limit", models.NewPost{UserID: 1, Title: strings.Repeat("é", 300), Body: "x"}, false},
		{"Title Too Long", models.NewPost{UserID: 1, Title: strings.Repeat("a", 301), Body: "x"}, true},
		{"Body Too Long", models.NewPost{UserID: 1, Title: "t", Body: strings.Repeat("a", 50001)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewPost(tt.post)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateCommentLength(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateCommentLength(strings.Repeat("a", 2000)))
	assert.Error(t, ValidateCommentLength(strings.Repeat("a", 2001)))
}

package api

import (
	"math/rand/v2"
	"net/url"
	"strconv"
)

// RandomAvatar returns the placeholder avatar URL for a user. The same id
// always yields the same URL; id 0 yields a random one.
func (c *Client) RandomAvatar(userID int) string {
	return placeholderURL(c.avatarBase, "u", userID)
}

// RandomPostImage returns the placeholder cover image URL for a post.
func (c *Client) RandomPostImage(postID int) string {
	return placeholderURL(c.imageBase, "random", postID)
}

func placeholderURL(base, param string, id int) string {
	seed := strconv.Itoa(id)
	if id == 0 {
		seed = strconv.FormatFloat(rand.Float64(), 'f', -1, 64)
	}

	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + param + "=" + url.QueryEscape(seed)
	}
	q := u.Query()
	q.Set(param, seed)
	u.RawQuery = q.Encode()
	return u.String()
}

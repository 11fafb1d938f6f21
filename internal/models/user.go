// Package models contains the data structures shared by the data access layer,
// the views and the renderers.
package models

import "fmt"

// User is a ranked account as returned by GET /users.
type User struct {
	ID       int    `json:"id" yaml:"id"`
	Username string `json:"username,omitempty" yaml:"username"`
	// Name is used when the upstream omits username.
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	PostCount int    `json:"postCount" yaml:"postCount"`
}

// DisplayName returns the username, the name, or a generic label.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.Name != "" {
		return u.Name
	}
	return fmt.Sprintf("User %d", u.ID)
}

// Package models holds the persisted domain types of the server.
package models

import (
	"slices"
	"time"
)

// Sauce is a rated product record. UserID is its owner and never changes
// after creation. Likes and Dislikes always equal the sizes of UsersLiked and
// UsersDisliked, and a user id appears in at most one of the two lists.
//
// ImageURL is not stored; it is resolved from ImageRef on every read.
type Sauce struct {
	ID            string    `json:"_id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Manufacturer  string    `json:"manufacturer"`
	Description   string    `json:"description"`
	MainPepper    string    `json:"mainPepper"`
	ImageRef      string    `json:"-"`
	ImageURL      string    `json:"imageUrl"`
	Heat          int       `json:"heat"`
	Likes         int       `json:"likes"`
	Dislikes      int       `json:"dislikes"`
	UsersLiked    []string  `json:"usersLiked"`
	UsersDisliked []string  `json:"usersDisliked"`
	Version       int64     `json:"-"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// SauceDetails are the owner-editable fields of a sauce.
type SauceDetails struct {
	Name         string
	Manufacturer string
	Description  string
	MainPepper   string
	Heat         int
}

// Apply copies d onto s. Votes, owner and image are left untouched.
func (d SauceDetails) Apply(s *Sauce) {
	s.Name = d.Name
	s.Manufacturer = d.Manufacturer
	s.Description = d.Description
	s.MainPepper = d.MainPepper
	s.Heat = d.Heat
}

// Clone returns a deep copy, so voter lists can be changed without touching
// the original.
func (s *Sauce) Clone() *Sauce {
	c := *s
	c.UsersLiked = slices.Clone(s.UsersLiked)
	c.UsersDisliked = slices.Clone(s.UsersDisliked)
	return &c
}

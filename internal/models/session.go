package models

import "strings"

// UserProfile is the subset of the provider profile the app shows and uses.
type UserProfile struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	FollowerCount int    `json:"followers"`
}

// FirstName returns the first word of the display name, or "User" when there is none.
func (u UserProfile) FirstName() string {
	if fields := strings.Fields(u.DisplayName); len(fields) > 0 {
		return fields[0]
	}
	return "User"
}

// AuthSession is the outcome of one authorization attempt.
//
// AccessToken is set only after a successful code exchange.
type AuthSession struct {
	AuthorizationCode string
	AccessToken       string
	Profile           *UserProfile
	PlaylistCount     int
}

// Authenticated reports whether synthesis may run with this session.
func (s *AuthSession) Authenticated() bool {
	return s != nil && s.AccessToken != "" && s.Profile != nil && s.Profile.ID != ""
}

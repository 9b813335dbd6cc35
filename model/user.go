package model

// User holds the local author profile tied to the external identity
// provider (firebase). Username is unique and immutable once set.
type User struct {
	Id       string `db:"firebase_id" json:"id"`
	Username string `db:"username" json:"username"`
	IsAdmin  bool   `db:"is_admin" json:"isAdmin"`
}

// Profile is a user plus the social counters shown on their page.
type Profile struct {
	*User
	PostCount      int  `json:"postCount"`
	FollowerCount  int  `json:"followerCount"`
	FollowingCount int  `json:"followingCount"`
	IsFollowing    bool `json:"isFollowing"`
}

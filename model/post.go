package model

import (
	"time"
)

type Post struct {
	Id     int64  `json:"id"`
	Author *User  `json:"author"`
	Text   string `json:"text"`
	// Group is nil for posts published outside any group and after the
	// referenced group has been deleted.
	Group         *Group    `json:"group,omitempty"`
	ImageBlobName string    `json:"imageBlobName,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (p *Post) CanEdit(user *User) bool {
	return user != nil && user.Id == p.Author.Id
}

type Comment struct {
	Id        int64     `json:"id"`
	PostId    int64     `json:"-"`
	Author    *User     `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

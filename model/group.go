package model

// Group is a topical collection of posts. Groups are created
// administratively and the slug never changes after creation.
type Group struct {
	Id          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Slug        string `db:"slug" json:"slug"`
	Description string `db:"description" json:"description"`
}

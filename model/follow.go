package model

// Follow is the directed edge "UserId follows AuthorId". The pair is
// unique; the edge has no identity beyond it.
type Follow struct {
	UserId   string `db:"user_id" json:"userId"`
	AuthorId string `db:"author_id" json:"authorId"`
}

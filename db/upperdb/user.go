package upperdb

import (
	"context"
	"strings"

	db2 "github.com/inkwell-app/inkwell-be/db"
	"github.com/inkwell-app/inkwell-be/model"
	"github.com/upper/db/v4"
)

type UserDB struct {
	sess db.Session
}

func getUserDB(sess db.Session) *UserDB {
	return &UserDB{sess}
}

func (udb *UserDB) CreateUser(ctx context.Context, user *model.User) error {
	if strings.TrimSpace(user.Username) == "" {
		return &db2.ValidationError{Message: "username must not be empty"}
	}
	_, err := udb.sess.WithContext(ctx).Collection("person").
		Insert(user)
	if err != nil && db2.IsDupKeyErr(err) {
		return &db2.ValidationError{Message: "username already taken"}
	}
	return err
}

func (udb *UserDB) GetUser(ctx context.Context, id string) (*model.User, error) {
	return udb.getUserBy(ctx, db.Cond{"firebase_id": id})
}

func (udb *UserDB) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return udb.getUserBy(ctx, db.Cond{"username": username})
}

func (udb *UserDB) getUserBy(ctx context.Context, cond db.Cond) (*model.User, error) {
	var user model.User
	if err := udb.sess.WithContext(ctx).Collection("person").
		Find(cond).
		One(&user); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, &db2.NotFoundError{Resource: "user"}
		}
		return nil, err
	}
	return &user, nil
}

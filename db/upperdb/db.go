package upperdb

import (
	"database/sql"
	"fmt"

	"github.com/inkwell-app/inkwell-be/config"
	db2 "github.com/inkwell-app/inkwell-be/db"
	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"
)

// UpperDB implements db.Database on top of an upper/db session. The mysql
// adapter backs it in production; tests hand it a sqlite-backed session.
type UpperDB struct {
	*PostDB
	*GroupDB
	*UserDB
	*FollowDB
	sess  db.Session
	sqlDB *sql.DB
}

func New(sess db.Session, sqlDB *sql.DB) *UpperDB {
	return &UpperDB{
		PostDB:   getPostDB(sess),
		GroupDB:  getGroupDB(sess),
		UserDB:   getUserDB(sess),
		FollowDB: getFollowDB(sess),
		sess:     sess,
		sqlDB:    sqlDB,
	}
}

func Connect(cfg *config.Config) (db2.Database, error) {
	sqlDB, err := sql.Open("mysql",
		fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
			cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBName))
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxIdleTime(0)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}

	return New(sess, sqlDB), nil
}

func (udb *UpperDB) GetSQLDB() *sql.DB {
	return udb.sqlDB
}

func (udb *UpperDB) Close() error {
	return udb.sess.Close()
}

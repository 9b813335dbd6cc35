package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Error taxonomy surfaced by the storage layer. Routes translate these to
// HTTP statuses; everything else from the driver is treated as fatal to
// the request.

type ValidationError struct {
	Message string
}

func (ve *ValidationError) Error() string {
	return ve.Message
}

type NotFoundError struct {
	Resource string
}

func (nfe *NotFoundError) Error() string {
	return fmt.Sprintf("%v not found", nfe.Resource)
}

type AuthorizationError struct {
	Message string
}

func (ae *AuthorizationError) Error() string {
	return ae.Message
}

func IsValidationErr(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFoundErr(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func IsAuthorizationErr(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

const mysqlDupEntryCode = 1062

// IsDupKeyErr reports whether err is a unique-constraint violation. Covers
// the mysql driver used at runtime and the sqlite adapter used in tests.
func IsDupKeyErr(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDupEntryCode
	}
	return strings.Contains(err.Error(), "Duplicate") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

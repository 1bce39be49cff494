// Package repositories provides raw-SQL data access for the MariaDB store.
package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// mysqlDuplicateEntry is the MySQL/MariaDB error number for a unique-key
// violation.
const mysqlDuplicateEntry = 1062

// IsDuplicateEntry reports whether err is a unique-constraint violation from
// the store. The uniqueness constraint on users.email is the authoritative
// guarantee; the application-level existence check is only a fast path, so
// concurrent inserts that slip past it surface here.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

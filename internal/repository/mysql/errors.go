package mysql

import (
	"errors"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup or a write matched no rows.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejected a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReference is returned when a foreign key rejected a write.
	ErrReference = errors.New("referenced record does not exist")
	// ErrInsufficientStock is returned when a removal exceeds the item quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
)

const (
	mysqlDuplicateEntry   = 1062
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1451
)

// translate maps driver-level constraint violations onto package errors.
func translate(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Join(ErrReference, err)
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlDuplicateEntry:
			return errors.Join(ErrDuplicate, err)
		case mysqlNoReferencedRow, mysqlRowIsReferenced2:
			return errors.Join(ErrReference, err)
		}
	}

	// SQLite reports unique violations as text only on older builds.
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return errors.Join(ErrDuplicate, err)
	}

	return err
}

package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicate is returned by Classify for unique constraint violations.
var ErrDuplicate = errors.New("duplicate record")

const uniqueViolation = "23505"

func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}

func EnsureExtensions(d *gorm.DB) error {
	return d.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}

// Classify maps driver errors onto the sentinels the domain packages test for.
// Errors it does not recognise are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errors.Join(ErrDuplicate, err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}

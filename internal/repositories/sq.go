package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
)

var SqBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var ErrBadQuery = errors.New("bad query")

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextRepr   = "22P02"
	pgForeignKeyMissing = "23503"
)

// IsUniqueViolation reports whether code is a postgres unique constraint failure.
func IsUniqueViolation(code string) bool { return code == pgUniqueViolation }

// IsInvalidID reports whether code is postgres rejecting a malformed uuid literal.
func IsInvalidID(code string) bool { return code == pgInvalidTextRepr }

func IsForeignKeyViolation(code string) bool { return code == pgForeignKeyMissing }

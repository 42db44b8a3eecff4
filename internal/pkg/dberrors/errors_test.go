package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: "bookings_pkey"}

	assert.True(t, IsDuplicateConstraintError(dup))
	assert.True(t, IsDuplicateConstraintError(fmt.Errorf("insert: %w", dup), "bookings_pkey"))
	assert.True(t, IsDuplicateConstraintError(dup, "bookings_user_instance_key", "bookings_pkey"))
	assert.False(t, IsDuplicateConstraintError(dup, "other_key"))
	assert.False(t, IsDuplicateConstraintError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateConstraintError(errors.New("boom")))
	assert.False(t, IsDuplicateConstraintError(nil))
}

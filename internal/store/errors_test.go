package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsTableNotFound(t *testing.T) {
	for _, code := range []string{"42P01", "PGRST205"} {
		err := fmt.Errorf("load: %w", &Error{Op: "select", Code: code, Message: "relation missing"})
		assert.True(t, IsTableNotFound(err), code)
	}

	err := &Error{Op: "select", Status: 401, Code: "PGRST301", Message: "JWT expired"}
	assert.False(t, IsTableNotFound(err))
	assert.False(t, IsTableNotFound(errors.New("dial tcp: connection refused")))

	// a single-object read that matched no row is not a missing table
	noRows := fmt.Errorf("add: %w", &Error{Op: "insert", Status: 406, Code: CodeNoRows, Message: "JSON object requested, multiple (or no) rows returned"})
	assert.False(t, IsTableNotFound(noRows))
	assert.True(t, HasCode(noRows, CodeNoRows))
	assert.False(t, HasCode(errors.New("eof"), CodeNoRows))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "select: boom (code X1)", (&Error{Op: "select", Code: "X1", Message: "boom"}).Error())
	assert.Equal(t, "delete: status 503", (&Error{Op: "delete", Status: 503}).Error())

	inner := errors.New("eof")
	e := &Error{Op: "insert", Err: inner}
	assert.Equal(t, "insert: eof", e.Error())
	assert.ErrorIs(t, e, inner)
}

func TestOrderValidate(t *testing.T) {
	assert.NoError(t, NewestFirst.Validate())
	assert.Error(t, Order{Column: "title; drop table todos"}.Validate())
}

func TestPatch(t *testing.T) {
	assert.True(t, Patch{}.Empty())
	p := SetComplete(true)
	assert.False(t, p.Empty())
	assert.True(t, *p.IsComplete)
}

package svgo

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
)

func TestFindNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := Find()
	test.T(t, err, ErrNotFound)
}

func TestProcessError(t *testing.T) {
	cause := errors.New("exit status 1")
	perr := &ProcessError{cause, []byte("bad input\n")}
	test.String(t, perr.Error(), "svgo: exit status 1: bad input")
	test.T(t, errors.Unwrap(perr), cause)

	perr = &ProcessError{cause, nil}
	test.String(t, perr.Error(), "svgo: exit status 1")
}

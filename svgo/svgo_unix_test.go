//go:build linux || darwin || netbsd || solaris || openbsd
// +build linux darwin netbsd solaris openbsd

package svgo

import (
	"errors"
	"os/exec"
	"testing"
	"time"

	"github.com/tdewolff/test"
)

func TestOptimizePassThrough(t *testing.T) {
	path, err := exec.LookPath("cat")
	if err != nil {
		t.SkipNow()
	}
	o := &Optimizer{Path: path}
	b, err := o.Bytes([]byte("<svg/>"))
	test.Error(t, err)
	test.Bytes(t, b, []byte("<svg/>"))
}

func TestOptimizeFailure(t *testing.T) {
	path, err := exec.LookPath("false")
	if err != nil {
		t.SkipNow()
	}
	o := &Optimizer{Path: path}
	b, err := o.Bytes([]byte("<svg/>"))
	test.That(t, err != nil)
	perr := &ProcessError{}
	test.That(t, errors.As(err, &perr))
	test.Bytes(t, b, []byte("<svg/>"), "input must be returned on failure")
}

func TestOptimizeTimeout(t *testing.T) {
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.SkipNow()
	}
	o := &Optimizer{Path: path, Args: []string{"10"}, Timeout: 10 * time.Millisecond}
	_, err = o.Bytes(nil)
	test.That(t, err != nil)
}

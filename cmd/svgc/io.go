package main

import (
	"fmt"
	"os"

	"github.com/matryer/try"
)

// readFile reads input whole, retrying the read a few times as the file may
// still be held by the program that just wrote it.
func readFile(input string) ([]byte, error) {
	var b []byte
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		b, ferr = os.ReadFile(input)
		return attempt < 5, ferr
	})
	if err != nil {
		return nil, fmt.Errorf("read input file %q: %w", input, err)
	}
	return b, nil
}

// writeFile creates or truncates output with the given permissions.
func writeFile(output string, b []byte, perm os.FileMode) error {
	var f *os.File
	err := try.Do(func(attempt int) (bool, error) {
		var ferr error
		f, ferr = os.OpenFile(output, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, perm)
		return attempt < 5, ferr
	})
	if err != nil {
		return fmt.Errorf("open output file %q: %w", output, err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("write output file %q: %w", output, err)
	}
	return f.Close()
}

// overwriteFile replaces path in place. The original is kept as path.bak for
// the duration of the write and restored when the write fails.
func overwriteFile(path string, b []byte, perm os.FileMode) error {
	bak := path + ".bak"
	err := try.Do(func(attempt int) (bool, error) {
		ferr := os.Rename(path, bak)
		return attempt < 5, ferr
	})
	if err != nil {
		return fmt.Errorf("back up %q: %w", path, err)
	}
	if err := writeFile(path, b, perm); err != nil {
		if rerr := os.Rename(bak, path); rerr != nil {
			return fmt.Errorf("%w (restoring backup failed: %v)", err, rerr)
		}
		return err
	}
	return os.Remove(bak)
}

package main

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/xerrors"
)

const chunkSize = 1024 * 100

// SameContents reports whether two files are byte-for-byte equal.
func SameContents(file1, file2 string) (bool, error) {
	info1, err := os.Stat(file1)
	if err != nil {
		return false, xerrors.Errorf("stat %s: %w", file1, err)
	}
	info2, err := os.Stat(file2)
	if err != nil {
		return false, xerrors.Errorf("stat %s: %w", file2, err)
	}
	if info1.Size() != info2.Size() {
		return false, nil
	}

	f1, err := os.Open(file1)
	if err != nil {
		return false, xerrors.Errorf("open %s: %w", file1, err)
	}
	defer f1.Close()

	f2, err := os.Open(file2)
	if err != nil {
		return false, xerrors.Errorf("open %s: %w", file2, err)
	}
	defer f2.Close()

	b1 := make([]byte, chunkSize)
	b2 := make([]byte, chunkSize)
	for {
		n1, err1 := io.ReadFull(f1, b1)
		if err1 != nil && err1 != io.EOF && err1 != io.ErrUnexpectedEOF {
			return false, xerrors.Errorf("read %s: %w", file1, err1)
		}
		n2, err2 := io.ReadFull(f2, b2)
		if err2 != nil && err2 != io.EOF && err2 != io.ErrUnexpectedEOF {
			return false, xerrors.Errorf("read %s: %w", file2, err2)
		}
		if n1 != n2 || !bytes.Equal(b1[:n1], b2[:n2]) {
			return false, nil
		}
		if err1 != nil || err2 != nil {
			// short or empty read: both files are exhausted
			return err1 != nil && err2 != nil, nil
		}
	}
}

// SameGroup reports whether all files share the contents of the first one.
func SameGroup(files ...string) (bool, error) {
	if len(files) <= 1 {
		return true, nil
	}
	for _, f := range files[1:] {
		if eq, err := SameContents(files[0], f); err != nil {
			return false, xerrors.Errorf("compare %s, %s: %w", files[0], f, err)
		} else if !eq {
			return false, nil
		}
	}
	return true, nil
}

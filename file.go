package main

import (
	"fmt"
	"os"
	"path"

	"go.uber.org/zap"
	"golang.org/x/xerrors"
)

func Move(sl *zap.SugaredLogger, from, to string) error {
	dir, _ := path.Split(to)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return xerrors.Errorf("mkdir %s: %w", dir, err)
	}
	if err := os.Rename(from, to); err != nil {
		return xerrors.Errorf("move %s: %w", from, err)
	}
	sl.Debugf("move\n\t%s\n\t%s", from, to)
	return nil
}

// FreeName returns dir/file, or dir/file-N for the first N that does not
// exist yet.
func FreeName(dir, file string) (string, error) {
	ext := path.Ext(file)
	base := file[:len(file)-len(ext)]
	for dup := 0; ; dup++ {
		name := path.Join(dir, file)
		if dup > 0 {
			name = path.Join(dir, fmt.Sprintf("%s-%d%s", base, dup, ext))
		}
		if _, err := os.Stat(name); err != nil {
			if os.IsNotExist(err) {
				return name, nil
			}
			return "", xerrors.Errorf("stat %s: %w", name, err)
		}
	}
}

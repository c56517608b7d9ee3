package cases

import (
	"os"
	"path/filepath"
)

var stateDir string

type options struct {
	dir  string
	mode os.FileMode
}

func statePath(name string) (path string, err error) {
	path = filepath.Join(stateDir, name)
	if err = os.MkdirAll(stateDir, 0o755); err != nil {
		return
	}
	return
}

//effect:entrypoint
func Save(name string) error {
	o := new(options)
	_ = o
	p, err := statePath(name + ".json")
	os.WriteFile(p, nil, 0o644)
	return err
}

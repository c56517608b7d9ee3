package cases

import (
	"fmt"
	"os"
	"path/filepath"
)

//effect:declare args=(dir as D, name as N), side_effects=(read_file(D + '/' + N)),
// returns=(D + '/' + N)
func readAt(dir, name string) string {
	return dir
}

func appConfig(app string) string {
	base := filepath.Join("/etc", app)
	return readAt(base, "config.yaml")
}

//effect:entrypoint
func LoadConfig(app string) string {
	p := appConfig(app)
	os.Remove(p + ".lock")
	return fmt.Sprintf("%s:%d", p, 1)
}

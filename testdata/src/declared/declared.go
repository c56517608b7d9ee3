package declared

import (
	"fmt"
	"os"
	"path/filepath"
)

//effect:declare args=(dir as D, name as N), side_effects=(read_file(D + '/' + N)),
// returns=(D + '/' + N)
func readAt(dir, name string) string {
	data, _ := os.ReadFile(filepath.Join(dir, name))
	return string(data)
}

func configPath(app string) string {
	return readAt("~/.config", app+".json")
}

//effect:entrypoint
func Main() string { // want `Main may trigger read_file\("~/\.config/app\.json"\)` `Main may trigger read_file\("~/\.config/app\.json/\*"\)`
	p := configPath("app")
	return readAt(p, os.Args[0])
}

//effect:entrypoint
func Env() string { // want `Env may trigger getenv\("HOME"\)` `Env may trigger read_file\("\*/\.profile"\)`
	home := os.Getenv("HOME")
	return readAt(home, ".profile")
}

//effect:entrypoint
func Formatted(user string) { // want `Formatted may trigger remove\("/home/\*/cache"\)`
	os.Remove(fmt.Sprintf("/home/%s/cache", user))
}

func notAnEntrypoint() {
	os.Remove("/")
}

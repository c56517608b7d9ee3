package config

import (
	"maps"
)

// Declarations of standard library functions with well known effects.
// Functions returning file contents or handles have no returns clause.
var predefinedExternals = map[Reference]string{
	// Files.
	{Package: "os", Name: "ReadFile"}:  "args=(name as N), side_effects=(read_file(N))",
	{Package: "os", Name: "WriteFile"}: "args=(name as N), side_effects=(write_file(N))",
	{Package: "os", Name: "Open"}:      "args=(name as N), side_effects=(open_file(N))",
	{Package: "os", Name: "OpenFile"}:  "args=(name as N), side_effects=(open_file(N))",
	{Package: "os", Name: "Create"}:    "args=(name as N), side_effects=(create_file(N))",
	{Package: "os", Name: "Remove"}:    "args=(name as N), side_effects=(remove(N))",
	{Package: "os", Name: "RemoveAll"}: "args=(path as P), side_effects=(remove_all(P))",
	{Package: "os", Name: "Mkdir"}:     "args=(name as N), side_effects=(mkdir(N))",
	{Package: "os", Name: "MkdirAll"}:  "args=(path as P), side_effects=(mkdir(P))",
	{Package: "os", Name: "Stat"}:      "args=(name as N), side_effects=(stat(N))",
	{Package: "os", Name: "Rename"}:    "args=(oldpath as O, newpath as N), side_effects=(rename(O, N))",

	// Environment.
	{Package: "os", Name: "Getenv"}: "args=(key as K), side_effects=(getenv(K))",
	{Package: "os", Name: "Setenv"}: "args=(key as K), side_effects=(setenv(K))",

	// Processes.
	{Package: "os/exec", Name: "Command"}: "args=(name as N), side_effects=(exec(N))",

	// Network.
	{Package: "net", Name: "Dial"}:       "args=(network as N, address as A), side_effects=(dial(N, A))",
	{Package: "net", Name: "Listen"}:     "args=(network as N, address as A), side_effects=(listen(N, A))",
	{Package: "net/http", Name: "Get"}:   "args=(url as U), side_effects=(http_get(U))",
	{Package: "net/http", Name: "Post"}:  "args=(url as U), side_effects=(http_post(U))",
	{Package: "net/http", Name: "Head"}:  "args=(url as U), side_effects=(http_head(U))",
}

// Externals returns declarations of functions outside of the analyzed
// package keyed by qualified name: the predefined ones merged with custom
// entries. Custom entries win.
func Externals(custom map[Reference]string) map[string]string {
	all := maps.Clone(predefinedExternals)
	if custom != nil {
		maps.Insert(all, maps.All(custom))
	}

	res := make(map[string]string, len(all))
	for ref, text := range all {
		res[ref.Qualified()] = text
	}

	return res
}

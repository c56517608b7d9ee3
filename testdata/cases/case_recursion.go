package cases

//effect:declare args=(p as P), side_effects=(write_file(P))
func write(p string) {}

func walk(dir string) string {
	write(dir + "/index")
	return walk(dir)
}

//effect:entrypoint
func Index() string {
	return walk("/srv")
}

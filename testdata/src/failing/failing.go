package failing

//effect:declare args=(v as V), side_effects=(emit(V))
func emit(v string) {}

//effect:entrypoint
func Broken() { // want `Broken: analysis failed: unsupported binding pattern`
	var m map[string]string
	m["k"] = "v"
	emit("never")
}

//effect:entrypoint
func Healthy() { // want `Healthy may trigger emit\("ok"\)`
	emit("ok")
}

package cases

//effect:declare args=(addr as A), side_effects=(dial(A))
func dial(addr string) {}

//effect:entrypoint
func Broken() {
	dial(host)
}

//effect:entrypoint
func Healthy() {
	dial("localhost:" + port)
}

const port = "8080"

package main

import (
	"github.com/sirkon/effectful/cmd/effectful/commands"
)

func main() {
	commands.Execute()
}

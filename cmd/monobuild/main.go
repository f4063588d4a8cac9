package main

import (
	"github.com/charypar/monobuild/cmd/monobuild/commands"
)

func main() {
	commands.Execute()
}

package main

import (
	"os"

	"github.com/studentrecords/conformance/cmd/conformance/commands"
)

func main() {
	os.Exit(commands.Execute())
}

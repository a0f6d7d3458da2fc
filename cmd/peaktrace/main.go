package main

import (
	"github.com/voluzi/peaktrace/cmd/peaktrace/cmd"
)

func main() {
	cmd.Execute()
}

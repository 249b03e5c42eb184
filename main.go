package main

import (
	"os"

	"github.com/jopnelli/n8n-debugger/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}

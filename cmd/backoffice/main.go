package main

import (
	"os"

	"github.com/srini-crayon/tngrm-frontend-sub001/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}

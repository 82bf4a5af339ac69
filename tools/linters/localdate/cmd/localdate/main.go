package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/flyerhub/flyerd/tools/linters/localdate"
)

func main() {
	singlechecker.Main(localdate.Analyzer)
}

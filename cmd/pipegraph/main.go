package main

import (
	"github.com/askiada/go-pipeline-graph/internal/cli"
)

func main() {
	cli.Execute()
}

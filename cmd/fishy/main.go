package main

import (
	"github.com/yuvrajy/SomethingFishy/internal/cli"
)

func main() {
	cli.Execute()
}

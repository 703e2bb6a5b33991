package main

import (
	"github.com/custodia-labs/mailfts/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}

package main

import (
	"calendar-engine/pkg/cli"
)

func main() {
	cli.Execute()
}

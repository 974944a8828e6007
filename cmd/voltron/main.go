package main

import "voltron/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/godex-dev/godex/internal/cli"

func main() {
	cli.Execute()
}

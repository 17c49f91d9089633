package main

import "github.com/chazu/famdef/internal/cli"

func main() {
	cli.Execute()
}

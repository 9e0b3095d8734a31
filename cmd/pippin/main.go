package main

import "github.com/nathfavour/pippin/internal/cli"

func main() {
	cli.Execute()
}

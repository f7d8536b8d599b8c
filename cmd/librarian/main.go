package main

import "librarian/internal/cli"

func main() {
	cli.Execute()
}

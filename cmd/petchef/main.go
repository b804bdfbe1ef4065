package main

import "petchef/internal/cli"

func main() {
	cli.Execute()
}

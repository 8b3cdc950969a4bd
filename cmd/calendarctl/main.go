package main

import "econcal/internal/cli"

func main() {
	cli.Execute()
}

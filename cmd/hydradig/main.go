package main

import "github.com/jroosing/hydradig/internal/cli"

func main() {
	cli.Execute()
}

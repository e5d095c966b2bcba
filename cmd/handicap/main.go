package main

import "github.com/mmynk/handicap/internal/cli"

func main() {
	cli.Execute()
}

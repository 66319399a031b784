package main

import "github.com/fastpitchtools/fastpitch-events/internal/cli"

func main() {
	cli.Execute()
}

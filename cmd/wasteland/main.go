package main

import "github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/cli"

func main() {
	cli.Execute()
}

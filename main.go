package main

import "github.com/agentic-research/dataspec/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/mdspec/mdspec/cmd"

func main() {
	cmd.Execute()
}

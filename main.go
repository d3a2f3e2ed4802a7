package main

import "github.com/chriserin/ftwiki/cmd"

func main() {
	cmd.Execute()
}

package main

import "cardbox/cmd/cardbox-cli/cmd"

func main() {
	cmd.Execute()
}

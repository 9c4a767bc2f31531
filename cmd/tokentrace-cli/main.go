package main

import "tokentrace/cmd/tokentrace-cli/cmd"

func main() {
	cmd.Execute()
}

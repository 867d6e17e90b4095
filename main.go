package main

import "github.com/dev-mohitbeniwal/keystone/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/strrl/docuflow/cmd/docuflow/commands"

func main() {
	commands.Execute()
}

package main

import "github.com/rl1809/inventory-service/cmd/server/commands"

func main() {
	commands.Execute()
}

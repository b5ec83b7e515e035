package main

import "github.com/carson-networks/finance-server/cmd/budgetctl/commands"

func main() {
	commands.Execute()
}

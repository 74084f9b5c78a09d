package main

import "github.com/Leopold1975/bookshelf/cmd/bookshelf/commands"

func main() {
	commands.Execute()
}

package main

import "github.com/moyu-x/file-organizer/cmd"

func main() {
	cmd.Execute()
}

package main

import "db-scaffold/cmd"

func main() {
	cmd.Execute()
}

package main

import "ytap/cmd"

func main() {
	cmd.Execute()
}

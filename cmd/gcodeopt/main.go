package main

import "gcodeopt/cmd/gcodeopt/cmd"

func main() {
	cmd.Execute()
}

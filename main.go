package main

import "envcompare/cmd"

func main() {
	cmd.Execute()
}

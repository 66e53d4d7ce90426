package main

import "github.com/chris/histdb/cmd"

func main() {
	cmd.Execute()
}

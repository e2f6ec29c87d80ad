package main

import "github.com/datasage-io/datasage-cli/cmd"

func main() {
	cmd.Execute()
}

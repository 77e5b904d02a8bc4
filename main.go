package main

import "github.com/notargets/meshio/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/docregistry/docreg/cmd"

func main() {
	cmd.Execute()
}

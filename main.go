package main

import "github.com/atc-lang/atc/cmd"

var version = "v0.3.1"

func main() {
	cmd.Execute(version)
}

package main

import "github.com/theaaf/radius-core/cmd"

func main() {
	cmd.Execute()
}

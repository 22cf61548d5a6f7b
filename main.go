package main

import "github.com/napcet/3mf-reader/cmd"

func main() {
	cmd.Execute()
}

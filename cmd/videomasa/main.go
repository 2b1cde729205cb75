package main

import "videomasa/cmd/videomasa/cmd"

func main() {
	cmd.Execute()
}

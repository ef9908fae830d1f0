package main

import "github.com/kozaktomas/attendance-marker/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/Tiliavir/timeclock/cmd"

func main() {
	cmd.Execute()
}

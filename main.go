package main

import "safewalk-backend/cmd"

func main() {
	cmd.Run()
}

package main

import "github.com/masmgr/logospots/cmd"

func main() {
	cmd.Run()
}

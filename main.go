package main

import "github.com/mhoersch/hoursheet/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/Prince5598/Cloud-Storage/cmd"

func main() {
	cmd.Execute()
}

package main

import "github.com/nholding/kundli-view/cmd"

func main() {
	cmd.Execute()
}

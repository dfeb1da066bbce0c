package main

import "github.com/planforge/ms-go-plans/cmd"

func main() {
	cmd.Execute()
}

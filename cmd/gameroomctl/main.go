package main

import "github.com/pixelden/gameroom/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/llehouerou/notifyd/internal/cli"

func main() {
	cli.Execute()
}

package main

import "campus-coffee/internal/cli"

func main() {
	cli.Execute()
}

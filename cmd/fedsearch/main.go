package main

import "github.com/dbsmedya/fedsearch/cmd/fedsearch/cmd"

func main() {
	cmd.Execute()
}

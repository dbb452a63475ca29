package main

import "github/chapool/go-docsign/cmd"

func main() {
	cmd.Execute()
}

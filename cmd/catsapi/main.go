package main

import "github.com/whiskerworks/cats-api/cmd/catsapi/cmd"

func main() {
	cmd.Execute()
}

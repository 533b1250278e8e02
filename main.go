package main

import (
	"db-upsert/cmd"
)

func main() {
	cmd.Execute()
}

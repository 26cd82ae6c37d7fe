package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/tkc/tp-todo/internal/cli"
)

func main() {
	cli.Execute()
}

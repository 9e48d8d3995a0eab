package main

import "github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/cli"

func main() {
	cli.Execute()
}

package main

import "github.com/shaharia-lab/jobportal/cmd"

func main() {
	cmd.Execute()
}

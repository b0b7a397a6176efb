package main

import (
	"github.com/Rakhulsr/go-smartmart/app/cmd"
	"github.com/Rakhulsr/go-smartmart/app/configs"
)

func main() {
	env := configs.LoadEnv()
	cmd.RunCli(env)
}

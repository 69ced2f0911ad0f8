package main

import (
	"fmt"
	"os"

	"fjacquet/fincat/cmd/batch"
	"fjacquet/fincat/cmd/bot"
	"fjacquet/fincat/cmd/categories"
	"fjacquet/fincat/cmd/inspect"
	"fjacquet/fincat/cmd/process"
	"fjacquet/fincat/cmd/root"
	"fjacquet/fincat/internal/config"

	"github.com/sirupsen/logrus"
)

func init() {
	// Load .env before anything logs so LOG_LEVEL applies from the start.
	config.LoadEnv()
	logrus.SetLevel(config.LevelFromEnv())

	root.Init()

	root.Cmd.AddCommand(process.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(inspect.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(bot.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

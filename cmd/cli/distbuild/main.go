package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/vipshek/gradle-java-distribution/pkg/assembler"
	"github.com/vipshek/gradle-java-distribution/pkg/logging"
	"github.com/vipshek/gradle-java-distribution/pkg/logging/zaplogging"
)

type flagOptions struct {
	Config  string `long:"config" short:"c" description:"Packaging configuration file path (YAML)" required:"true"`
	Output  string `long:"output" short:"o" description:"Override the output directory"`
	Verbose bool   `long:"verbose" short:"v" description:"Enable debug logging"`
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s , ", module)
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v", err)
		os.Exit(1)
	}

	sprintfLogger, err := zaplogging.NewZapSprintfLogger(opts.Verbose)
	if err != nil {
		fmt.Printf("Logger initialization failed: %v", err)
		os.Exit(1)
	}
	defer sprintfLogger.Sync()

	logger := logging.NewLogger(logPrefix("distbuild"), sprintfLogger.LogFuncs())

	err = assembler.Run(opts.Config, assembler.RunOptions{OutputDirectory: opts.Output}, logger)
	if err != nil {
		logger.Errorf("Failed to run: %v", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"

	"github.com/vipshek/gradle-java-distribution/pkg/logging"
	"github.com/vipshek/gradle-java-distribution/pkg/logging/zaplogging"
	"github.com/vipshek/gradle-java-distribution/pkg/supervisor"
)

type flagOptions struct {
	Home    string `long:"home" short:"d" description:"Bundle home directory (defaults to the executable's ../..)"`
	Verbose bool   `long:"verbose" short:"v" description:"Enable debug logging"`
	Args    struct {
		Command string `positional-arg-name:"command" description:"One of: start, stop, restart, status"`
	} `positional-args:"yes" required:"yes"`
}

func logPrefix(module string) string {
	return fmt.Sprintf("module: %s , ", module)
}

// bundleHome locates the bundle root. The supervisor is installed at
// service/bin/<binary> inside the bundle, so the root is two levels up from
// the executable's directory.
func bundleHome(override string) (string, error) {
	if override != "" {
		return filepath.Abs(override)
	}
	executable, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Abs(filepath.Join(filepath.Dir(executable), "..", ".."))
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

	logger := logging.NewLogger(logPrefix("svcinit"), sprintfLogger.LogFuncs())

	home, err := bundleHome(opts.Home)
	if err != nil {
		logger.Errorf("Failed to locate bundle home: %v", err)
		os.Exit(1)
	}

	unit, err := supervisor.LoadUnitFile(filepath.Join(home, "deployment", supervisor.UnitFileName))
	if err != nil {
		logger.Errorf("Failed to load unit file: %v", err)
		os.Exit(1)
	}

	sup := supervisor.New(supervisor.NewConfigFromUnit(home, unit), os.Stdout, logger)

	switch opts.Args.Command {
	case "start":
		err = sup.Start()
	case "stop":
		err = sup.Stop()
	case "restart":
		err = sup.Restart()
	case "status":
		err = sup.Status()
	default:
		logger.Errorf("Invalid subcommand: %s (expected start, stop, restart or status)", opts.Args.Command)
		os.Exit(1)
	}

	if err != nil {
		logger.Errorf("Failed to run %s: %v", opts.Args.Command, err)
		os.Exit(1)
	}
}

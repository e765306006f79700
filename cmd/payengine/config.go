package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/nkiryanov/payengine/internal/logger"
)

const (
	defaultLoggingLevel = logger.LevelInfo
	defaultEnvironment  = logger.EnvProduction
)

type Config struct {
	// Default logging level
	LogLevel string

	// Environment
	Environment string

	// CSV file with the transaction stream to process
	InputFile string

	// Where to write the account report; empty means stdout
	OutputFile string
}

func NewConfig() *Config {
	return &Config{
		LogLevel:    defaultLoggingLevel,
		Environment: defaultEnvironment,
	}
}

// Load variable from '.env' file (should be located at working directory)
func (c *Config) LoadDotEnv(getwd func() (string, error)) error {
	wd, err := getwd()
	if err != nil {
		return err
	}

	envMap, err := godotenv.Read(filepath.Join(wd, ".env"))

	switch {
	case err == nil:
		c.LoadEnv(func(key string) string {
			return envMap[key]
		})
		return nil
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

func (c *Config) LoadEnv(getenv func(string) string) {
	// Set option to value if it not empty
	setString := func(o *string) func(value string) {
		return func(value string) {
			if value != "" {
				*o = value
			}
		}
	}

	envMap := map[string]func(string){
		"INPUT_FILE":  setString(&c.InputFile),
		"OUTPUT_FILE": setString(&c.OutputFile),
		"LOG_LEVEL":   setString(&c.LogLevel),
		"ENVIRONMENT": setString(&c.Environment),
	}

	for key, parseFn := range envMap {
		parseFn(getenv(key))
	}
}

func (c *Config) ParseFlags(args []string) error {
	fs := pflag.NewFlagSet("payengine", pflag.ContinueOnError)

	fs.StringVarP(&c.InputFile, "input", "i", c.InputFile, "CSV file with transactions to process")
	fs.StringVarP(&c.OutputFile, "output", "o", c.OutputFile, "File to write the account report to (default stdout)")
	fs.StringVarP(&c.LogLevel, "log-level", "l", c.LogLevel, "Logging level (debug, info, warn, error)")
	fs.StringVarP(&c.Environment, "environment", "e", c.Environment, "Environment (dev, prod)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// The input file may also be passed as a positional argument
	if c.InputFile == "" && fs.NArg() > 0 {
		c.InputFile = fs.Arg(0)
	}

	return nil
}

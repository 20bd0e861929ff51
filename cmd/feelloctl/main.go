// Command feelloctl administers the shared question store.
//
// Usage:
//
//	feelloctl migrate                 Apply schema migrations
//	feelloctl list [--theme T]        List questions, newest first
//	feelloctl add --theme T --text X  Add a question
//	feelloctl update <id> [flags]     Change fields of a question
//	feelloctl delete <id>             Delete a question
//	feelloctl export [--format F]     Full backup as JSON or YAML
//	feelloctl seed                    Import the bundled questions
//	feelloctl events                  JSONL event log viewer
package main

import (
	"fmt"
	"os"

	"github.com/infblueocean/feello/internal/logging"
)

const usage = `feelloctl - feello question store administration

Usage:
  feelloctl <command> [flags]

Commands:
  migrate     Apply pending schema migrations
  list        List questions, newest first
  add         Add a question
  update      Change fields of a question
  delete      Delete a question
  export      Export the whole collection (json or yaml)
  seed        Import the bundled questions into an empty store
  events      Local JSONL event log viewer

Environment:
  FEELLO_DATABASE_DSN  PostgreSQL connection string (required except for events)
  FEELLO_CONFIG        Config file (default: ~/.feello/config.yaml)
  FEELLO_LOG_LEVEL     debug, info, warn or error

Run 'feelloctl <command> -h' for command-specific help.
`

var commands = map[string]func(args []string) error{
	"migrate": runMigrate,
	"list":    runList,
	"add":     runAdd,
	"update":  runUpdate,
	"delete":  runDelete,
	"export":  runExport,
	"seed":    runSeed,
	"events":  runEvents,
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	name := os.Args[1]
	switch name {
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	}

	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "feelloctl: unknown command %q\n\n", name)
		fmt.Print(usage)
		os.Exit(1)
	}

	logging.InitStderr(os.Getenv("FEELLO_LOG_LEVEL"))
	if err := run(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "feelloctl %s: %v\n", name, err)
		os.Exit(1)
	}
}

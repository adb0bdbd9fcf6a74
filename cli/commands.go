package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Diagnostics log level (debug, info, warn, error)." name:"log-level" placeholder:"LEVEL"`
	Config    string `help:"Configuration file (YAML, TOML or JSON)." type:"path" placeholder:"FILE" short:"c"`
}

type Commands struct {
	Globals

	Process ProcessCmd `cmd:"" default:"withargs" help:"Apply a transactions file and print the resulting account balances."`
	Check   CheckCmd   `cmd:"" help:"Apply a transactions file and report malformed rows and rejected transactions."`
	Watch   WatchCmd   `cmd:"" help:"Reprocess a transactions file whenever it changes."`
}

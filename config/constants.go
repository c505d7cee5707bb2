package config

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "crisp.yaml"

// SourceFileExt is the extension of crisp source files.
const SourceFileExt = ".crisp"

// HistoryFile is the REPL history file in the home directory.
const HistoryFile = ".crisp_history"

const (
	DefaultPrompt   = "crisp> "
	DefaultContinue = "  ... "
)

// Meta commands understood by the REPL.
const (
	QuitCommand = ":quit"
	GCCommand   = ":gc"
	EnvCommand  = ":env"
	HelpCommand = ":help"
)

package constants

// Application constants
const (
	ApplicationName  = "fex"
	ApplicationTitle = "Simple File Explorer (Go)"
	VendorName       = "fex"
)

// Shell text
const (
	Prompt      = "[\"%s\"]$ "
	BannerLine  = "===== " + ApplicationTitle + " ====="
	BannerHint  = "Type 'help' to view available commands."
	ExitMessage = "Exiting File Explorer..."
)

// Prompt modes
const (
	PromptAuto   = "auto"
	PromptAlways = "always"
	PromptNever  = "never"
)

// File system constants
const (
	ParentDirectoryName = ".."
	DirTag              = "[DIR] "
	FileTag             = "[FILE] "
)

// Configuration constants
const (
	ConfigFileName          = "config.yaml"
	EnvPrefix               = "FEX"
	DefaultSortBy           = "name"
	DefaultSortOrder        = "asc"
	DefaultDirectoriesFirst = false
	DefaultShowHiddenFiles  = true
	DefaultHistoryEntries   = 50
	DefaultLogLevel         = "warn"
)

// Permission bits accepted by chmod
const (
	MaxOctalMode = 0o7777
	CopyBufSize  = 1 << 20 // 1 MiB
)

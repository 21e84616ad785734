package version

// AppName and Version are printed at startup and used in log file names.
var (
	AppName = "stagemind"
	Version = "0.3.0"
)

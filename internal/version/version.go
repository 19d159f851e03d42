package version

var (
	AppName    = "server-keeper"
	AppVersion = "dev"
)

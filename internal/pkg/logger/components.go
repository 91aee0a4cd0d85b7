package logger

const (
	ComponentNameServer     = "server"
	ComponentNameHTTPServer = "http_server"
	ComponentNameState      = "state"
	ComponentNamePipeline   = "pipeline"
	ComponentNameAuth       = "auth"
	ComponentNameBuild      = "build"
	ComponentNameCloudRun   = "cloud_run"
	ComponentNameSource     = "source"
)

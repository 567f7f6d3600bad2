package main

import (
	"context"

	"epvote-monitor/cmd/epvote-cli/commands"
	"epvote-monitor/lib/serviceutil"
	"epvote-monitor/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(context.Background(), "epvote-cli")
	telemetry.InitSlog(true)
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}

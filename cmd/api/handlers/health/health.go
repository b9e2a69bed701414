package health

import (
	"context"
	"runtime"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"

	"VidTube.com/cmd/api/handlers/pack"
)

type Status struct {
	Status         string  `json:"status"`
	CpuCount       int     `json:"cpuCount"`
	MemUsedPercent float64 `json:"memUsedPercent"`
	Goroutines     int     `json:"goroutines"`
}

// Healthcheck reports liveness with a host snapshot. Host probe failures
// are logged and leave the fields zero.
func Healthcheck(ctx context.Context, c *app.RequestContext) {
	resp := &Status{Status: "OK", Goroutines: runtime.NumGoroutine()}
	if n, err := cpu.Counts(true); err != nil {
		hlog.CtxWarnf(ctx, "Failed to count cpus: %v", err)
	} else {
		resp.CpuCount = n
	}
	if vm, err := mem.VirtualMemory(); err != nil {
		hlog.CtxWarnf(ctx, "Failed to read memory stats: %v", err)
	} else {
		resp.MemUsedPercent = vm.UsedPercent
	}
	pack.SendResponse(ctx, c, nil, resp, "Health check passed")
}

package statistics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Data collects operational metrics about the node: committed blocks, event
// counts and api timings.
type Data struct {
	BlockEnd blockEnd

	Api apiResponseTime
}

type LastBlockInfo struct {
	Height    uint64
	Duration  float64
	Timestamp float64
}

type blockEnd struct {
	sync.RWMutex
	HeightProm    prometheus.Gauge
	DurationProm  prometheus.Gauge
	TimestampProm prometheus.Gauge
	LastBlockInfo LastBlockInfo
}

type apiResponseTime struct {
	sync.Mutex
	responseTime *prometheus.GaugeVec
}

func New() *Data {
	apiVec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "api",
			Help: "Api request durations by path",
		},
		[]string{"path"},
	)
	prometheus.MustRegister(apiVec)

	height := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "block_height",
		Help: "Last committed block height",
	})
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "block_duration",
		Help: "Duration of the last block in seconds",
	})
	timestamp := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "block_timestamp",
		Help: "Timestamp of the last committed block",
	})
	prometheus.MustRegister(height, duration, timestamp)

	return &Data{
		BlockEnd: blockEnd{
			HeightProm:    height,
			DurationProm:  duration,
			TimestampProm: timestamp,
		},
		Api: apiResponseTime{responseTime: apiVec},
	}
}

// SetLastBlockInfo records the freshly committed block.
func (d *Data) SetLastBlockInfo(height uint64, duration time.Duration) {
	d.BlockEnd.Lock()
	defer d.BlockEnd.Unlock()

	now := float64(time.Now().UnixNano()) / 1e9
	d.BlockEnd.LastBlockInfo = LastBlockInfo{
		Height:    height,
		Duration:  duration.Seconds(),
		Timestamp: now,
	}

	d.BlockEnd.HeightProm.Set(float64(height))
	d.BlockEnd.DurationProm.Set(duration.Seconds())
	d.BlockEnd.TimestampProm.Set(now)
}

// GetLastBlockInfo returns info about the last committed block.
func (d *Data) GetLastBlockInfo() LastBlockInfo {
	d.BlockEnd.RLock()
	defer d.BlockEnd.RUnlock()

	return d.BlockEnd.LastBlockInfo
}

// SetApiTime records the duration of an api request.
func (d *Data) SetApiTime(duration time.Duration, path string) {
	if d == nil {
		return
	}

	d.Api.Lock()
	defer d.Api.Unlock()

	d.Api.responseTime.With(prometheus.Labels{"path": path}).Set(duration.Seconds())
}

// Serve exposes the prometheus metrics until the context is cancelled.
func (d *Data) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}

	return nil
}

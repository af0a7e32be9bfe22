/**
 * Copyright (c) 2025 The Vortex Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package vexecd

import (
	"context"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	log "github.com/sirupsen/logrus"
)

const (
	maxRetries    = 3
	retryInterval = 5 * time.Second
)

// UsageRecorder receives the usage samples and the final result of a job.
type UsageRecorder interface {
	RecordSample(*UsageSample) error
	RecordCompletion(*JobResult) error
	Close() error
}

// NewUsageRecorder picks the recorder backing the Database config section.
func NewUsageRecorder(cfg *Config) (UsageRecorder, error) {
	switch cfg.DB.Type {
	case "none":
		return NoopRecorder{}, nil
	case "influxdb":
		return newInfluxRecorder(cfg.DB.InfluxDB)
	}
	return nil, fmt.Errorf("unsupported database type: %s", cfg.DB.Type)
}

type NoopRecorder struct{}

func (NoopRecorder) RecordSample(*UsageSample) error   { return nil }
func (NoopRecorder) RecordCompletion(*JobResult) error { return nil }
func (NoopRecorder) Close() error                      { return nil }

type influxRecorder struct {
	client      influxdb2.Client
	org         string
	bucket      string
	measurement string
	nodeName    string
}

func newInfluxRecorder(cfg *InfluxDBConfig) (*influxRecorder, error) {
	var client influxdb2.Client
	var err error

	for i := 0; i < maxRetries; i++ {
		client = influxdb2.NewClient(cfg.URL, cfg.Token)
		_, err = client.Ping(context.Background())
		if err == nil {
			break
		}

		log.Warnf("Failed to connect to InfluxDB (attempt %d/%d): %v", i+1, maxRetries, err)
		client.Close()

		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to ping InfluxDB after %d attempts: %v", maxRetries, err)
	}

	hostname, _ := os.Hostname()
	return &influxRecorder{
		client:      client,
		org:         cfg.Org,
		bucket:      cfg.Bucket,
		measurement: cfg.Measurement,
		nodeName:    hostname,
	}, nil
}

func (r *influxRecorder) RecordSample(sample *UsageSample) error {
	writeAPI := r.client.WriteAPIBlocking(r.org, r.bucket)

	p := influxdb2.NewPoint(
		r.measurement,
		map[string]string{
			"node_name": r.nodeName,
			"job_id":    fmt.Sprintf("%d", sample.JobId),
		},
		map[string]interface{}{
			"cpu_percent":      sample.CpuPercent,
			"rss_bytes":        sample.RssBytes,
			"num_threads":      sample.NumThreads,
			"node_load_1":      sample.NodeLoad1,
			"node_mem_percent": sample.NodeMemPercent,
		},
		sample.Time,
	)

	if err := writeAPI.WritePoint(context.Background(), p); err != nil {
		return fmt.Errorf("failed to write usage sample: %v", err)
	}
	return nil
}

func (r *influxRecorder) RecordCompletion(result *JobResult) error {
	writeAPI := r.client.WriteAPIBlocking(r.org, r.bucket)

	p := influxdb2.NewPoint(
		r.measurement,
		map[string]string{
			"node_name": r.nodeName,
			"job_id":    fmt.Sprintf("%d", result.JobId),
		},
		map[string]interface{}{
			"exit_code":        result.ExitCode,
			"timed_out":        result.TimedOut,
			"duration_seconds": result.Elapsed.Seconds(),
			"start_time":       result.StartTime.Unix(),
			"end_time":         result.EndTime.Unix(),
		},
		result.EndTime,
	)

	if err := writeAPI.WritePoint(context.Background(), p); err != nil {
		return fmt.Errorf("failed to write job completion: %v", err)
	}
	return nil
}

func (r *influxRecorder) Close() error {
	r.client.Close()
	return nil
}

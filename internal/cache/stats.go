package cache

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"productapi.app/internal/ports"
)

// Stats merges the local counters with figures reported by the backend
type Stats struct {
	Snapshot
	Enabled bool         `json:"enabled"`
	Backend *BackendInfo `json:"redis_info,omitempty"`
}

// BackendInfo holds selected fields of the Redis INFO reply
type BackendInfo struct {
	UsedMemoryHuman        string `json:"used_memory_human"`
	ConnectedClients       int64  `json:"connected_clients"`
	TotalCommandsProcessed int64  `json:"total_commands_processed"`
	KeyspaceHits           int64  `json:"keyspace_hits"`
	KeyspaceMisses         int64  `json:"keyspace_misses"`
}

// Stats returns the metrics snapshot, plus backend figures when a backend
// is connected and INFO succeeds. An INFO failure is logged and leaves
// Backend nil.
func (c *Cache) Stats(ctx context.Context) Stats {
	stats := Stats{
		Snapshot: c.metrics.Snapshot(),
		Enabled:  c.backend != nil,
	}
	if c.backend == nil {
		return stats
	}

	raw, err := c.backend.client.Info(ctx).Result()
	if err != nil {
		c.logger.Error("Failed to get Redis info", ports.F("error", err.Error()))
		return stats
	}

	info := parseInfo(raw)
	stats.Backend = &info
	return stats
}

// IsAlive probes the backend; false when none is connected
func (c *Cache) IsAlive(ctx context.Context) bool {
	return c.backend.Probe(ctx)
}

func parseInfo(raw string) BackendInfo {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			fields[k] = v
		}
	}

	info := BackendInfo{UsedMemoryHuman: "N/A"}
	if v, ok := fields["used_memory_human"]; ok {
		info.UsedMemoryHuman = v
	}
	info.ConnectedClients = intField(fields, "connected_clients")
	info.TotalCommandsProcessed = intField(fields, "total_commands_processed")
	info.KeyspaceHits = intField(fields, "keyspace_hits")
	info.KeyspaceMisses = intField(fields, "keyspace_misses")
	return info
}

func intField(fields map[string]string, key string) int64 {
	n, err := strconv.ParseInt(fields[key], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

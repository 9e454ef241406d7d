package cmd

import (
	"context"
	"log"
	"sync"
)

// localHost is the in-process Host implementation the CLI runs against:
// there is no separate embedding process to block clients or persist
// keys, so BlockClient always reports "not blockable" (every ingest in
// this tool runs inline) and OpenKey/CloseKey are no-ops beyond a named
// handle for logging. LockCtx/UnlockCtx guard the one spec the command
// touches for the lifetime of the process.
type localHost struct {
	mu      sync.Mutex
	verbose bool
	loading bool
}

func newLocalHost(verbose bool) *localHost {
	return &localHost{verbose: verbose}
}

func (h *localHost) BlockClient(ctx context.Context) (any, bool) { return nil, false }
func (h *localHost) UnblockClient(token any, err error)          {}

func (h *localHost) OpenKey(ctx context.Context, name string) (any, error) {
	return name, nil
}
func (h *localHost) CloseKey(key any) {}

func (h *localHost) Log(level, msg string, kv ...any) {
	if !h.verbose && level == "debug" {
		return
	}
	log.Printf("[%s] %s %v", level, msg, kv)
}

func (h *localHost) IsLoadingSnapshot() bool { return h.loading }

func (h *localHost) LockCtx()   { h.mu.Lock() }
func (h *localHost) UnlockCtx() { h.mu.Unlock() }
func (h *localHost) RefreshCtx() {}

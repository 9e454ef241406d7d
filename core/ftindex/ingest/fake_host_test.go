package ingest

import "context"

type fakeHost struct {
	openCount int
}

func (h *fakeHost) BlockClient(ctx context.Context) (any, bool) { return "token", true }
func (h *fakeHost) UnblockClient(token any, err error)           {}
func (h *fakeHost) OpenKey(ctx context.Context, name string) (any, error) {
	h.openCount++
	return name, nil
}
func (h *fakeHost) CloseKey(key any)               {}
func (h *fakeHost) Log(level, msg string, kv ...any) {}
func (h *fakeHost) IsLoadingSnapshot() bool          { return false }
func (h *fakeHost) LockCtx()                         {}
func (h *fakeHost) UnlockCtx()                       {}
func (h *fakeHost) RefreshCtx()                      {}

package sav

import (
	"sync"

	"v.io/x/lib/vlog"
)

// warnOnceSet is the only process-wide shared state in the package: a
// mutex-guarded set of messages already emitted, so a long-running
// reader doesn't flood logs with, e.g., repeated SampleSubsetEmpty
// warnings.
type warnOnceSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

var defaultWarnOnce = &warnOnceSet{seen: make(map[string]bool)}

func (w *warnOnceSet) warn(key, msg string) {
	w.mu.Lock()
	fire := !w.seen[key]
	if fire {
		w.seen[key] = true
	}
	w.mu.Unlock()
	if fire {
		vlog.Error(msg)
	}
}

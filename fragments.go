package main

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

// CartBadgePlaceholder is the token replaced by the current badge count
// when the header fragment is served. Serving the count with the fragment
// itself is what keeps the header badge correct: the badge exists only
// once the fragment resolved, and it resolves already up to date.
const CartBadgePlaceholder = "{{cart_badge}}"

// fragmentNamePattern restricts fragment ids to simple names so a request
// can never escape the fragments folder.
var fragmentNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// FragmentStore serves the shared html fragments (header, footer) from the
// configured folder. A fragment is read from disk once and cached; a
// missing file is reported as ErrFragmentNotFound and the page simply goes
// without that fragment.
type FragmentStore struct {
	logger *zap.Logger
	folder string

	mu    sync.RWMutex
	cache map[string][]byte
}

func NewFragmentStore(logger *zap.Logger, folder string) *FragmentStore {
	return &FragmentStore{
		logger: logger,
		folder: folder,
		cache:  make(map[string][]byte),
	}
}

// Get returns the raw content of the named fragment.
func (fs *FragmentStore) Get(name string) ([]byte, error) {
	if !fragmentNamePattern.MatchString(name) {
		return nil, ErrFragmentNotFound
	}

	fs.mu.RLock()
	content, ok := fs.cache[name]
	fs.mu.RUnlock()
	if ok {
		return content, nil
	}

	content, err := os.ReadFile(filepath.Join(fs.folder, name+".html"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFragmentNotFound
		}
		return nil, err
	}

	fs.mu.Lock()
	fs.cache[name] = content
	fs.mu.Unlock()
	fs.logger.Info("fragments: loaded from disk", zap.String("fragment.id", name))
	return content, nil
}

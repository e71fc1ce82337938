package backend

import (
	"sync"

	"github.com/jsnml/gogit/ginternals/config"
	"github.com/jsnml/gogit/ginternals/githash"
	"github.com/jsnml/gogit/internal/cache"
	"github.com/jsnml/gogit/internal/syncutil"
	"github.com/spf13/afero"
)

// we make sure the struct implements the interface
var _ Backend = (*FSBackend)(nil)

// defaultObjectMutexCount is the amount of mutexes used to lock access
// to objects while they're written. An object is assigned to a mutex
// by its hash modulo this count.
const defaultObjectMutexCount = 256

// defaultCacheSize is the amount of objects kept in memory by the
// optional read cache. Objects are immutable, so the cache never
// needs to be invalidated.
const defaultCacheSize = 256

// FSBackend is a Backend implementation that stores its data on a
// filesystem abstracted by afero.Fs, allowing it to run against a real
// disk or an in-memory filesystem in tests.
type FSBackend struct {
	fs     afero.Fs
	config *config.Config
	hash   githash.Hash
	cache  *cache.LRU

	objectMu *syncutil.NamedMutex

	// refs holds the raw (un-resolved) content of every known
	// reference, keyed by its name (HEAD included)
	refs sync.Map
	// looseObjects holds the set of oids known to exist on disk
	looseObjects sync.Map
}

// NewFSBackend creates a new FSBackend using the given config.
// If cfg.FS is nil, the real filesystem is used.
func NewFSBackend(cfg *config.Config) (*FSBackend, error) {
	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	b := &FSBackend{
		fs:       fs,
		config:   cfg,
		hash:     githash.NewSHA1(),
		cache:    cache.NewLRU(defaultCacheSize),
		objectMu: syncutil.NewNamedMutex(defaultObjectMutexCount),
	}

	// Loading the refs/objects is best-effort: a repo that hasn't been
	// initialized yet (or is being initialized right now) simply has
	// nothing to load.
	if err := b.loadRefs(); err != nil {
		return nil, err
	}
	if err := b.loadLooseObjects(); err != nil {
		return nil, err
	}

	return b, nil
}

// Path returns the path to the gitdir (.git)
func (b *FSBackend) Path() string {
	return b.config.GitDirPath
}

// Close frees the resources held by the backend
func (b *FSBackend) Close() error {
	if b.cache != nil {
		b.cache.Clear()
	}
	return nil
}

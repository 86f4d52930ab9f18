// SPDX-License-Identifier: MIT

// Package store caches generated canvases in BadgerDB.
//
// A canvas depends only on the rule table, the initial row and the row count:
// boosting and layout never change the output, so they are not part of the
// key. Entries are written once per key and read back verbatim.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/katalvlaran/cellauto/canvas"
	"github.com/katalvlaran/cellauto/cell"
	"github.com/katalvlaran/cellauto/evolve"
	"github.com/katalvlaran/cellauto/rule"
)

var (
	// ErrCorruptEntry indicates a stored value that does not decode to a canvas.
	ErrCorruptEntry = errors.New("store: corrupt cache entry")

	// ErrNoPath indicates a persistent configuration without a directory.
	ErrNoPath = errors.New("store: path is required for a persistent cache")
)

// keyPrefix namespaces canvas entries.
const keyPrefix = "canvas/"

// entryVersion is the first byte of every encoded entry.
const entryVersion byte = 1

// Config holds configuration for the cache database.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM; used by tests.
	InMemory bool

	// SyncWrites makes every write durable before it returns.
	SyncWrites bool

	// Logger receives Badger's own messages. Nil disables them.
	Logger *slog.Logger
}

// DefaultConfig returns a durable on-disk configuration; Path must still be set.
func DefaultConfig() Config {
	return Config{SyncWrites: true}
}

// InMemoryConfig returns a configuration that never touches disk.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is a canvas cache. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the cache described by cfg.
// The caller must Close the returned Store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, ErrNoPath
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("store: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger: %w", err)
	}
	logger.Debug("canvas cache opened", slog.String("path", cfg.Path), slog.Bool("in_memory", cfg.InMemory))

	return &Store{db: db, logger: logger}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// KeyFor returns the cache key of the canvas produced by table from initial
// over rows generations: "canvas/" followed by a hex SHA-256 digest.
func KeyFor(table *rule.Table, initial []cell.Cell, rows int) []byte {
	spec := table.Spec()
	h := sha256.New()
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(spec)))
	h.Write(n[:])
	h.Write(spec)
	binary.BigEndian.PutUint64(n[:], uint64(len(initial)))
	h.Write(n[:])
	h.Write(initial)
	binary.BigEndian.PutUint64(n[:], uint64(rows))
	h.Write(n[:])

	return []byte(keyPrefix + hex.EncodeToString(h.Sum(nil)))
}

// Put stores res under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key []byte, res *evolve.Result) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	val := encode(res)
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, val)
	}); err != nil {
		return fmt.Errorf("store: put %s: %w", key, err)
	}
	s.logger.Debug("canvas cached", slog.String("key", string(key)), slog.Int("bytes", len(val)))

	return nil
}

// Get loads the entry under key. The boolean is false when nothing is stored.
func (s *Store) Get(ctx context.Context, key []byte) (*evolve.Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("store: %w", err)
	}
	var val []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("store: get %s: %w", key, err)
	}
	res, err := decode(val)
	if err != nil {
		return nil, false, fmt.Errorf("store: %s: %w", key, err)
	}

	return res, true, nil
}

// Delete removes the entry under key; a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("store: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Len counts cached canvases.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})

	return n, err
}

// encode lays out an entry as
//
//	version | rows uint32 | cols uint32 | cells[rows*cols] | sums[rows] uint32
//
// with big-endian integers.
func encode(res *evolve.Result) []byte {
	rows, cols := res.Canvas.Rows(), res.Canvas.Cols()
	buf := make([]byte, 0, 9+rows*cols+4*rows)
	buf = append(buf, entryVersion)
	buf = binary.BigEndian.AppendUint32(buf, uint32(rows))
	buf = binary.BigEndian.AppendUint32(buf, uint32(cols))
	buf = append(buf, res.Canvas.Data()...)
	for _, s := range res.Sums {
		buf = binary.BigEndian.AppendUint32(buf, s)
	}

	return buf
}

// decode reverses encode and validates every field.
func decode(val []byte) (*evolve.Result, error) {
	if len(val) < 9 || val[0] != entryVersion {
		return nil, ErrCorruptEntry
	}
	rows := int(binary.BigEndian.Uint32(val[1:5]))
	cols := int(binary.BigEndian.Uint32(val[5:9]))
	body := val[9:]
	if rows < 1 || cols < 1 || len(body) != rows*cols+4*rows {
		return nil, fmt.Errorf("%d×%d in %d bytes: %w", rows, cols, len(body), ErrCorruptEntry)
	}
	cells := body[:rows*cols]
	if err := cell.Validate(cells); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruptEntry)
	}
	cv, err := canvas.View(cells, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorruptEntry)
	}
	sums := make([]uint32, rows)
	for r := range sums {
		sums[r] = binary.BigEndian.Uint32(body[rows*cols+4*r:])
	}

	return &evolve.Result{Canvas: cv, Sums: sums}, nil
}

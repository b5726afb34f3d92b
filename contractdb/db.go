// Copyright (c) 2024 The jeton developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package contractdb

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// scriptHashLen is the size of the keys records are stored under.
const scriptHashLen = 20

// contractPrefix is prepended to the script hash of every record key.
var contractPrefix = []byte("contract-")

// ErrNotFound is returned when no record is stored under a script hash.
var ErrNotFound = errors.New("contract not found")

// options returns the leveldb options the store is opened with.
func options() *opt.Options {
	return &opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
		Filter:      filter.NewBloomFilter(10),
	}
}

// Store is a leveldb backed store of contract records keyed by the hash of
// their redeem script.
type Store struct {
	ldb *leveldb.DB
}

// Open opens the store at path, creating it when missing.  A corrupted
// database is recovered before use.
func Open(path string) (*Store, error) {
	ldb, err := leveldb.OpenFile(path, options())
	var corrupted *ldbErrors.ErrCorrupted
	if errors.As(err, &corrupted) {
		log.Warnf("Contract database corruption detected for path %s: %v",
			path, err)
		ldb, err = leveldb.RecoverFile(path, options())
		if err != nil {
			return nil, errors.Wrapf(err, "cannot recover %s", path)
		}
		log.Warnf("Contract database recovered from corruption for "+
			"path %s", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s", path)
	}
	log.Debugf("Opened contract database %s", path)
	return &Store{ldb: ldb}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return errors.WithStack(s.ldb.Close())
}

// recordKey returns the database key of a script hash.
func recordKey(scriptHash []byte) ([]byte, error) {
	if len(scriptHash) != scriptHashLen {
		return nil, errors.Errorf("script hash is %d bytes, want %d",
			len(scriptHash), scriptHashLen)
	}
	key := make([]byte, 0, len(contractPrefix)+scriptHashLen)
	key = append(key, contractPrefix...)
	return append(key, scriptHash...), nil
}

// Put stores the record under the hash of its redeem script, replacing any
// previous record, and returns that hash.
func (s *Store) Put(rec *Record) ([]byte, error) {
	scriptHash := rec.ScriptHash()
	key, err := recordKey(scriptHash)
	if err != nil {
		return nil, err
	}
	value, err := rec.serialize()
	if err != nil {
		return nil, err
	}
	if err := s.ldb.Put(key, value, nil); err != nil {
		return nil, errors.Wrapf(err, "cannot store contract %x",
			scriptHash)
	}
	log.Debugf("Stored %v contract %x", rec.Kind, scriptHash)
	return scriptHash, nil
}

// Get returns the record stored under the script hash.  ErrNotFound is
// returned when there is none.
func (s *Store) Get(scriptHash []byte) (*Record, error) {
	key, err := recordKey(scriptHash)
	if err != nil {
		return nil, err
	}
	value, err := s.ldb.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotFound, "script hash %x",
				scriptHash)
		}
		return nil, errors.Wrapf(err, "cannot load contract %x",
			scriptHash)
	}
	rec, err := deserializeRecord(value)
	if err != nil {
		return nil, errors.Wrapf(err, "contract %x", scriptHash)
	}
	return rec, nil
}

// Has returns whether a record is stored under the script hash.
func (s *Store) Has(scriptHash []byte) (bool, error) {
	key, err := recordKey(scriptHash)
	if err != nil {
		return false, err
	}
	has, err := s.ldb.Has(key, nil)
	return has, errors.WithStack(err)
}

// Delete removes the record stored under the script hash.  ErrNotFound is
// returned when there is none.
func (s *Store) Delete(scriptHash []byte) error {
	has, err := s.Has(scriptHash)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrapf(ErrNotFound, "script hash %x", scriptHash)
	}
	key, _ := recordKey(scriptHash)
	return errors.WithStack(s.ldb.Delete(key, nil))
}

// ForEach calls fn with every stored record in script hash order.  Iteration
// stops at the first error, which is returned.
func (s *Store) ForEach(fn func(scriptHash []byte, rec *Record) error) error {
	iter := s.ldb.NewIterator(util.BytesPrefix(contractPrefix), nil)
	defer iter.Release()

	for iter.Next() {
		scriptHash := append([]byte(nil),
			iter.Key()[len(contractPrefix):]...)
		rec, err := deserializeRecord(iter.Value())
		if err != nil {
			return errors.Wrapf(err, "contract %x", scriptHash)
		}
		if err := fn(scriptHash, rec); err != nil {
			return err
		}
	}
	return errors.WithStack(iter.Error())
}

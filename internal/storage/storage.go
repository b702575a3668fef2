package storage

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

type Storage struct {
	mu      sync.RWMutex
	memory  Memory
	encoder MemoryEncoder
	logger  *zap.Logger
}

// The Memory interface allows the bot to persist data as key-value pairs.
// The default implementation of the Memory is to store all keys and values in
// a map (i.e. in-memory). RedisMemory offers actual long term persistence.
type Memory interface {
	Set(key string, value []byte) error
	Get(key string) ([]byte, bool, error)
	Delete(key string) (bool, error)
	Keys() ([]string, error)
	Close() error
}

// A MemoryEncoder is used to encode and decode any values that are stored in
// the Memory. The default implementation that is used by the Storage uses a
// JSON encoding.
type MemoryEncoder interface {
	Encode(value interface{}) ([]byte, error)
	Decode(data []byte, target interface{}) error
}

type inMemory struct {
	data map[string][]byte
}

type jsonEncoder struct{}

func NewStorage(logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Storage{
		memory:  newInMemory(),
		encoder: new(jsonEncoder),
		logger:  logger,
	}
}

// Close closes the Memory that is managed by this Storage.
func (s *Storage) Close() error {
	s.mu.Lock()
	err := s.memory.Close()
	s.mu.Unlock()
	return err
}

func (s *Storage) Set(key string, value interface{}) error {
	data, err := s.encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	s.mu.Lock()
	err = s.memory.Set(key, data)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to store value: %w", err)
	}

	s.logger.Debug("Stored value", zap.String("key", key))
	return nil
}

// Get decodes the value of key into value. It reports false if there is no
// such key. A nil value only checks for existence.
func (s *Storage) Get(key string, value interface{}) (bool, error) {
	s.mu.RLock()
	data, ok, err := s.memory.Get(key)
	s.mu.RUnlock()
	if err != nil {
		return false, fmt.Errorf("failed to fetch value: %w", err)
	}
	if !ok || value == nil {
		return ok, nil
	}

	err = s.encoder.Decode(data, value)
	if err != nil {
		return false, fmt.Errorf("failed to decode value: %w", err)
	}
	return true, nil
}

// Delete removes key and reports whether it existed.
func (s *Storage) Delete(key string) (bool, error) {
	s.mu.Lock()
	ok, err := s.memory.Delete(key)
	s.mu.Unlock()
	if err != nil {
		return false, fmt.Errorf("failed to delete value: %w", err)
	}
	return ok, nil
}

// Keys returns all stored keys in sorted order.
func (s *Storage) Keys() ([]string, error) {
	s.mu.RLock()
	keys, err := s.memory.Keys()
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}

	sort.Strings(keys)
	return keys, nil
}

func (s *Storage) SetMemory(m Memory) {
	s.mu.Lock()
	s.memory = m
	s.mu.Unlock()
}

func (m *inMemory) Close() error {
	m.data = map[string][]byte{}
	return nil
}

func newInMemory() *inMemory {
	return &inMemory{data: map[string][]byte{}}
}

func (m *inMemory) Delete(key string) (bool, error) {
	_, ok := m.data[key]
	delete(m.data, key)
	return ok, nil
}

func (m *inMemory) Set(key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *inMemory) Get(key string) ([]byte, bool, error) {
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *inMemory) Keys() ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}

	return keys, nil
}

func (jsonEncoder) Encode(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}

func (jsonEncoder) Decode(data []byte, target interface{}) error {
	return json.Unmarshal(data, target)
}

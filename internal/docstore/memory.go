package docstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory Store for tests and ephemeral sessions.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]memoryDoc
	now  func() time.Time
}

type memoryDoc struct {
	data        []byte
	contentType string
	modified    time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]memoryDoc), now: time.Now}
}

// Put stores or overwrites the document at key.
func (m *Memory) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.docs[key] = memoryDoc{data: cp, contentType: contentType, modified: m.now()}
	return nil
}

// Get retrieves the document contents at key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[key]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	cp := make([]byte, len(doc.data))
	copy(cp, doc.data)
	return cp, nil
}

// List returns the stored documents under prefix in ascending key order.
func (m *Memory) List(_ context.Context, prefix string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var infos []Info
	for key, doc := range m.docs {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		infos = append(infos, Info{
			Key:          key,
			Size:         int64(len(doc.data)),
			ContentType:  doc.contentType,
			LastModified: doc.modified,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

// Driver reports the memory driver.
func (m *Memory) Driver() Driver { return DriverMemory }

package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemDisk is an in-memory Disk used by tests to observe asset-store state
// directly (orphan checks) and to inject failures on specific paths.
type MemDisk struct {
	mu      sync.Mutex
	objects map[string][]byte

	// FailPut and FailDelete make the named operations fail for paths
	// containing the given substring. Empty means never fail.
	FailPut    string
	FailDelete string

	// FailPutOn makes the Nth Put call fail (1-based). Zero disables it.
	FailPutOn int
	putCalls  int
}

// NewMemDisk returns an empty in-memory disk.
func NewMemDisk() *MemDisk {
	return &MemDisk{objects: map[string][]byte{}}
}

func (d *MemDisk) Put(_ context.Context, path string, content []byte, _ string) error {
	if d.FailPut != "" && strings.Contains(path, d.FailPut) {
		return fmt.Errorf("memdisk: injected put failure for %s", path)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.putCalls++
	if d.FailPutOn != 0 && d.putCalls == d.FailPutOn {
		return fmt.Errorf("memdisk: injected put failure on call %d", d.putCalls)
	}
	buf := make([]byte, len(content))
	copy(buf, content)
	d.objects[path] = buf
	return nil
}

func (d *MemDisk) Get(_ context.Context, path string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.objects[path]
	if !ok {
		return nil, fmt.Errorf("memdisk: %s not found", path)
	}
	return data, nil
}

func (d *MemDisk) Exists(_ context.Context, path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.objects[path]
	return ok
}

func (d *MemDisk) Delete(_ context.Context, path string) error {
	if d.FailDelete != "" && strings.Contains(path, d.FailDelete) {
		return fmt.Errorf("memdisk: injected delete failure for %s", path)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.objects, path)
	return nil
}

func (d *MemDisk) URL(path string) string {
	return "/uploads/" + strings.TrimLeft(path, "/")
}

func (d *MemDisk) Path(locator string) (string, bool) {
	if !strings.HasPrefix(locator, "/uploads/") {
		return "", false
	}
	return strings.TrimPrefix(locator, "/uploads/"), true
}

func (d *MemDisk) AllFiles(_ context.Context, prefix string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []string
	for path := range d.objects {
		if strings.HasPrefix(path, prefix) {
			out = append(out, path)
		}
	}
	return out, nil
}

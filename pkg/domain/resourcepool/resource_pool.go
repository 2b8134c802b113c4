package resourcepool

import (
	"errors"
	"slices"
)

const EntityType = "resource pool"

var ErrEmptyPool = errors.New("resource pool is empty")

// ResourcePool is the persisted rotation order of the endpoints serving one
// model. The head is handed out next.
type ResourcePool struct {
	ID        string   `json:"id"`
	Resources []string `json:"resources"`
}

func New(model string, resources []string) *ResourcePool {
	return &ResourcePool{
		ID:        model,
		Resources: dedupe(resources),
	}
}

// SameSet reports whether the pool holds exactly the given resources, in any order.
func (p *ResourcePool) SameSet(resources []string) bool {
	want := dedupe(resources)
	if len(want) != len(p.Resources) {
		return false
	}
	have := make(map[string]struct{}, len(p.Resources))
	for _, r := range p.Resources {
		have[r] = struct{}{}
	}
	for _, r := range want {
		if _, ok := have[r]; !ok {
			return false
		}
	}
	return true
}

// Reset replaces the rotation with resources in the given order.
func (p *ResourcePool) Reset(resources []string) {
	p.Resources = dedupe(resources)
}

// Rotate pops the head and appends it to the tail.
func (p *ResourcePool) Rotate() (string, error) {
	if len(p.Resources) == 0 {
		return "", ErrEmptyPool
	}
	head := p.Resources[0]
	p.Resources = append(slices.Clone(p.Resources[1:]), head)
	return head, nil
}

func dedupe(resources []string) []string {
	out := make([]string, 0, len(resources))
	seen := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

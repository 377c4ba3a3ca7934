// Package binding implements the binding table: indexed groups of
// shader-visible resources (uniform bytes, textures, samplers) with a
// take/restore borrowing discipline that catches resources a draw call
// forgot to give back.
//
// Grounded on the original source's crates/pipeline/src/bind_group.rs
// BindType enum and, for the resource-registry shape, nora's
// material.go/samplerManager.go (named resource slots attached to a
// draw).
package binding

import (
	"errors"
	"fmt"

	"github.com/maja42/swraster/asset"
)

// Kind identifies which variant an Entry currently holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindUniform
	KindTexture
	KindSampler
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "Empty"
	case KindUniform:
		return "Uniform"
	case KindTexture:
		return "Texture"
	case KindSampler:
		return "Sampler"
	}
	return "Unknown"
}

// ErrBindingNotRestored is returned when a Group is checked while one of
// its entries is still taken out.
var ErrBindingNotRestored = errors.New("binding: entry taken but never restored")

// Entry is a closed sum of the resource kinds a binding slot can hold.
// Exactly one of the typed fields is meaningful, selected by kind.
type Entry struct {
	kind    Kind
	uniform []byte
	texture *asset.Texture
	sampler asset.Sampler
	taken   bool
}

// Uniform wraps raw uniform bytes as a binding entry.
func Uniform(data []byte) Entry { return Entry{kind: KindUniform, uniform: data} }

// TextureEntry wraps a texture as a binding entry.
func TextureEntry(tex *asset.Texture) Entry { return Entry{kind: KindTexture, texture: tex} }

// SamplerEntry wraps a sampler as a binding entry.
func SamplerEntry(s asset.Sampler) Entry { return Entry{kind: KindSampler, sampler: s} }

// Empty returns an unoccupied binding entry.
func Empty() Entry { return Entry{kind: KindEmpty} }

// Kind reports which variant this entry holds.
func (e Entry) Kind() Kind { return e.kind }

// UniformBytes returns the entry's uniform bytes, or nil if it isn't one.
func (e Entry) UniformBytes() []byte { return e.uniform }

// Texture returns the entry's texture, or nil if it isn't one.
func (e Entry) Texture() *asset.Texture { return e.texture }

// Sampler returns the entry's sampler.
func (e Entry) Sampler() asset.Sampler { return e.sampler }

// Group is an ordered collection of binding entries (one "bind group").
type Group struct {
	entries []Entry
}

// NewGroup builds a group from the given entries, in index order.
func NewGroup(entries ...Entry) *Group {
	return &Group{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of slots in the group.
func (g *Group) Len() int { return len(g.entries) }

// Take borrows the entry at index: it returns the entry's current value
// and leaves the slot empty and marked as taken, so a later Restore is
// required.
func (g *Group) Take(index int) (Entry, error) {
	if index < 0 || index >= len(g.entries) {
		return Entry{}, fmt.Errorf("binding: index %d out of range (group has %d entries)", index, len(g.entries))
	}
	e := g.entries[index]
	g.entries[index] = Entry{kind: KindEmpty, taken: true}
	return e, nil
}

// Restore gives a previously-taken entry back to the group.
func (g *Group) Restore(index int, e Entry) error {
	if index < 0 || index >= len(g.entries) {
		return fmt.Errorf("binding: index %d out of range (group has %d entries)", index, len(g.entries))
	}
	e.taken = false
	g.entries[index] = e
	return nil
}

// CheckRestored reports ErrBindingNotRestored if any entry in the group
// is still taken out. Callers should invoke this after each draw.
func (g *Group) CheckRestored() error {
	for i, e := range g.entries {
		if e.taken {
			return fmt.Errorf("%w: group slot %d (%s)", ErrBindingNotRestored, i, e.kind)
		}
	}
	return nil
}

// Table is an indexed collection of bind groups, matching a shader's
// @group(n) layout.
type Table struct {
	groups map[uint32]*Group
}

// NewTable returns an empty binding table.
func NewTable() *Table {
	return &Table{groups: make(map[uint32]*Group)}
}

// SetGroup installs (or replaces) the group bound at index.
func (t *Table) SetGroup(index uint32, g *Group) {
	t.groups[index] = g
}

// Group returns the group bound at index, or nil if none is set.
func (t *Table) Group(index uint32) *Group {
	return t.groups[index]
}

// CheckAllRestored verifies every installed group has no outstanding
// taken entries.
func (t *Table) CheckAllRestored() error {
	for idx, g := range t.groups {
		if err := g.CheckRestored(); err != nil {
			return fmt.Errorf("binding: group %d: %w", idx, err)
		}
	}
	return nil
}

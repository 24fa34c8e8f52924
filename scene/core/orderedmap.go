// ABOUTME: OrderedMap is a map that iterates its keys in ascending order.
// ABOUTME: Backs the geometry registry so anchors enumerate deterministically by key.
package core

import (
	"cmp"
	"slices"
)

// OrderedMap is a map whose Keys come back sorted.
type OrderedMap[K cmp.Ordered, V any] struct {
	data map[K]V
	keys []K
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K cmp.Ordered, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{data: make(map[K]V)}
}

// Set stores val under key. New keys are inserted at their sorted position.
func (m *OrderedMap[K, V]) Set(key K, val V) {
	if _, exists := m.data[key]; !exists {
		i, _ := slices.BinarySearch(m.keys, key)
		m.keys = slices.Insert(m.keys, i, key)
	}
	m.data[key] = val
}

// Get looks key up.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.data[key]
	return v, ok
}

// Delete drops key if present.
func (m *OrderedMap[K, V]) Delete(key K) {
	if _, exists := m.data[key]; !exists {
		return
	}
	delete(m.data, key)
	if i, found := slices.BinarySearch(m.keys, key); found {
		m.keys = slices.Delete(m.keys, i, i+1)
	}
}

// Keys returns all keys in sorted order.
func (m *OrderedMap[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}

// DeleteFunc removes every entry whose key satisfies fn.
func (m *OrderedMap[K, V]) DeleteFunc(fn func(K) bool) {
	m.keys = slices.DeleteFunc(m.keys, func(k K) bool {
		if fn(k) {
			delete(m.data, k)
			return true
		}
		return false
	})
}

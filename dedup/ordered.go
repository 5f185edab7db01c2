package dedup

import (
	"container/list"
	"time"
)

type entry[V any] struct {
	key      string
	inserted time.Time
	value    V
}

// orderedMap is a map that remembers insertion order. Entries are only ever inserted at the back,
// so the front is always the oldest and the first to expire.
type orderedMap[V any] struct {
	order *list.List
	index map[string]*list.Element
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{
		order: list.New(),
		index: make(map[string]*list.Element),
	}
}

// sweep evicts from the front while inserted+ttl < now and stops at the first live entry.
func (m *orderedMap[V]) sweep(now time.Time, ttl time.Duration) {
	for e := m.order.Front(); e != nil; e = m.order.Front() {
		ent := e.Value.(*entry[V])
		if !ent.inserted.Add(ttl).Before(now) {
			return
		}
		m.order.Remove(e)
		delete(m.index, ent.key)
	}
}

func (m *orderedMap[V]) get(key string) (*entry[V], bool) {
	e, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return e.Value.(*entry[V]), true
}

// put inserts at the newest position, replacing any entry with the same key.
func (m *orderedMap[V]) put(key string, now time.Time, value V) *entry[V] {
	m.remove(key)
	ent := &entry[V]{key: key, inserted: now, value: value}
	m.index[key] = m.order.PushBack(ent)
	return ent
}

func (m *orderedMap[V]) remove(key string) {
	if e, ok := m.index[key]; ok {
		m.order.Remove(e)
		delete(m.index, key)
	}
}

func (m *orderedMap[V]) clear() {
	m.order.Init()
	m.index = make(map[string]*list.Element)
}

func (m *orderedMap[V]) len() int {
	return m.order.Len()
}

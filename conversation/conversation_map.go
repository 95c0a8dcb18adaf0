package conversation

import (
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AttributeMap holds the named attributes of one conversation.
type AttributeMap = map[string]any

// ConversationMap is the per-session, creation ordered set of live
// conversations. It is created lazily by the first Store against a session
// and lives exactly as long as the session that holds it.
type ConversationMap struct {
	mu      sync.RWMutex
	entries *orderedmap.OrderedMap[string, AttributeMap]
}

func newConversationMap() *ConversationMap {
	return &ConversationMap{entries: orderedmap.New[string, AttributeMap]()}
}

// Len returns the number of live conversations.
func (m *ConversationMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries.Len()
}

// IDs returns the live conversation ids, oldest first.
func (m *ConversationMap) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, m.entries.Len())
	for pair := m.entries.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// evictOldestLocked removes the earliest created conversation. Caller must
// hold the write lock.
func (m *ConversationMap) evictOldestLocked() (string, bool) {
	oldest := m.entries.Oldest()
	if oldest == nil {
		return "", false
	}
	m.entries.Delete(oldest.Key)
	return oldest.Key, true
}

// attributesLocked returns the conversation's attributes or nil. Caller must
// hold at least the read lock.
func (m *ConversationMap) attributesLocked(conversationID string) AttributeMap {
	attrs, _ := m.entries.Get(conversationID)
	return attrs
}

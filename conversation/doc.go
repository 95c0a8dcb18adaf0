// Package conversation implements the conversation-scoped attribute store.
//
// Each session holds one ConversationMap under SessionKey: an insertion
// ordered mapping from conversation id to that conversation's attributes.
// When a store introduces a new conversation and the session already holds
// KeepAliveConversations of them, the oldest-created conversation is evicted
// with all its attributes. Reads never change the order, so eviction is
// strictly first-in first-out by creation. A limit of 0 disables eviction.
//
// Conversations exist only while they hold at least one attribute: cleaning
// up the last attribute removes the conversation from the session.
//
// All operations are in-memory and safe for concurrent use. Each
// ConversationMap carries its own lock; nothing is locked across sessions.
package conversation

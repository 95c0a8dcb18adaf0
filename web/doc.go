// Package web adapts the conversation store to net/http.
//
// SessionManager resolves (or creates) the caller's session from a cookie
// and attaches it to the request context. The conversation identifier is
// carried by the "_cid" request parameter: handlers read it with
// ConversationID, a fresh one is generated by EnsureConversationID (or
// implicitly by Attributes.Store) when a conversation starts, and
// HiddenFields / HiddenInput re-emit it into the next form so the following
// submission lands in the same conversation.
//
// A typical stack:
//
//	sessions := session.NewInMemoryStore()
//	manager := web.NewSessionManager(sessions)
//	attrs := web.NewAttributes(conversation.New())
//	http.Handle("/", manager.Middleware(handler(attrs)))
package web

package core

// AttributeStore keeps named attribute values per conversation inside a
// session. Missing conversations or attributes are not errors: Retrieve
// reports them as absent and Cleanup ignores them.
type AttributeStore interface {
	Store(sess SessionContext, conversationID, name string, value any) error
	Retrieve(sess SessionContext, conversationID, name string) (any, bool, error)
	Cleanup(sess SessionContext, conversationID, name string) error
}

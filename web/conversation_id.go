package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/hupe1980/convstore/core"
)

// CIDField is the request parameter (and hidden form field) carrying the
// conversation identifier.
const CIDField = "_cid"

// ConversationID returns the request's conversation id: the one assigned
// during this request if any, otherwise the _cid form or query parameter.
// It returns "" when neither is present; it never generates an id.
func ConversationID(r *http.Request) string {
	if scope := scopeFrom(r.Context()); scope != nil {
		if id := scope.conversationID(); id != "" {
			return id
		}
	}
	return strings.TrimSpace(r.FormValue(CIDField))
}

// EnsureConversationID returns the request's conversation id, generating a
// new one when the request carries none. The id is remembered for the rest
// of the request so HiddenFields can emit it.
func EnsureConversationID(r *http.Request) string {
	id := ConversationID(r)
	if id == "" {
		id = core.NewID()
	}
	if scope := scopeFrom(r.Context()); scope != nil {
		scope.setConversationID(id)
	}
	return id
}

// HiddenFields returns the extra form fields needed to keep the next
// submission in the current conversation, or an empty map outside one.
func HiddenFields(r *http.Request) map[string]string {
	fields := map[string]string{}
	if id := ConversationID(r); id != "" {
		fields[CIDField] = id
	}
	return fields
}

var hiddenInput = template.Must(template.New("hidden").Parse(
	`<input type="hidden" name="{{.Name}}" value="{{.Value}}">`))

// HiddenInput renders HiddenFields as HTML hidden inputs for templates.
func HiddenInput(r *http.Request) template.HTML {
	id := ConversationID(r)
	if id == "" {
		return ""
	}
	var b strings.Builder
	if err := hiddenInput.Execute(&b, struct{ Name, Value string }{CIDField, id}); err != nil {
		return ""
	}
	return template.HTML(b.String())
}

package permissions

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// Definition describes one permission-checked admin route.
type Definition struct {
	Key    string
	Method string
	Path   string
	Label  string
	Module string
}

const adminPrefix = "/v0/admin"

// Module names used to group definitions in the dashboard.
const (
	ModuleSystem      = "System"
	ModulePricing     = "Pricing Rules"
	ModuleChat        = "Chat"
	ModulePreferences = "Preferences"
	ModuleSettings    = "Settings"
)

// definitions is the full list of permission-checked routes.
var definitions = []Definition{
	newDefinition(http.MethodGet, "/permissions", "List permissions", ModuleSystem),

	newDefinition(http.MethodGet, "/pricing-rules", "List pricing rules", ModulePricing),
	newDefinition(http.MethodPost, "/pricing-rules", "Create pricing rule", ModulePricing),
	newDefinition(http.MethodGet, "/pricing-rules/stats", "Pricing rule stats", ModulePricing),
	newDefinition(http.MethodGet, "/pricing-rules/:id", "View pricing rule", ModulePricing),
	newDefinition(http.MethodPut, "/pricing-rules/:id", "Update pricing rule", ModulePricing),
	newDefinition(http.MethodDelete, "/pricing-rules/:id", "Delete pricing rule", ModulePricing),
	newDefinition(http.MethodPost, "/pricing-rules/:id/toggle", "Toggle pricing rule", ModulePricing),
	newDefinition(http.MethodPost, "/pricing/applicable-rule", "Resolve applicable rule", ModulePricing),
	newDefinition(http.MethodPost, "/pricing/quote", "Quote flight prices", ModulePricing),

	newDefinition(http.MethodGet, "/chat/conversations", "List conversations", ModuleChat),
	newDefinition(http.MethodGet, "/chat/conversations/:id", "View conversation", ModuleChat),
	newDefinition(http.MethodDelete, "/chat/conversations/:id", "Delete conversation", ModuleChat),
	newDefinition(http.MethodPost, "/chat/conversations/:id/messages", "Send message", ModuleChat),
	newDefinition(http.MethodPost, "/chat/conversations/:id/ai-response", "Trigger AI reply", ModuleChat),
	newDefinition(http.MethodPost, "/chat/conversations/:id/simulate", "Simulate customer message", ModuleChat),
	newDefinition(http.MethodPost, "/chat/conversations/:id/read", "Mark conversation read", ModuleChat),
	newDefinition(http.MethodPost, "/chat/conversations/:id/resolve", "Resolve conversation", ModuleChat),
	newDefinition(http.MethodGet, "/chat/active", "View active conversation", ModuleChat),
	newDefinition(http.MethodPut, "/chat/active", "Select active conversation", ModuleChat),
	newDefinition(http.MethodGet, "/chat/unread", "Unread summary", ModuleChat),
	newDefinition(http.MethodGet, "/chat/ws", "Chat event stream", ModuleChat),

	newDefinition(http.MethodGet, "/preferences/locale", "View locale", ModulePreferences),
	newDefinition(http.MethodPut, "/preferences/locale", "Update locale", ModulePreferences),

	newDefinition(http.MethodGet, "/settings", "List settings", ModuleSettings),
	newDefinition(http.MethodPut, "/settings/:key", "Update setting", ModuleSettings),
}

func newDefinition(method, path, label, module string) Definition {
	fullPath := adminPrefix + path
	return Definition{
		Key:    Key(method, fullPath),
		Method: method,
		Path:   fullPath,
		Label:  label,
		Module: module,
	}
}

// Key builds the permission key for a method and gin route path.
func Key(method, path string) string {
	return strings.ToUpper(strings.TrimSpace(method)) + " " + strings.TrimSpace(path)
}

// Definitions returns a copy of all permission definitions.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// DefinitionMap indexes definitions by key.
func DefinitionMap() map[string]Definition {
	out := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		out[def.Key] = def
	}
	return out
}

// ParsePermissions decodes a JSON array of permission keys, dropping unknown and duplicate entries.
func ParsePermissions(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var values []string
	if errUnmarshal := json.Unmarshal(raw, &values); errUnmarshal != nil {
		return []string{}
	}
	known := DefinitionMap()
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if _, ok := known[value]; !ok {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

// HasPermission reports whether key is in granted.
func HasPermission(granted []string, key string) bool {
	for _, permission := range granted {
		if permission == key {
			return true
		}
	}
	return false
}

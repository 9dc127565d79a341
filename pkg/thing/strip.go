package thing

// presentationKeys are metadata keys that describe how a value is shown to
// a human rather than constraining it, and must not reach the JSON-Schema
// compiler (where, e.g., "@type" would be rejected as an unknown/invalid
// schema keyword in some drafts, or simply mislead validation).
var presentationKeys = map[string]bool{
	"@type": true,
	"unit":  true,
	"title": true,
}

// stripPresentationKeys returns a shallow copy of m without the
// presentation-only keys, leaving m itself untouched.
func stripPresentationKeys(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if presentationKeys[k] {
			continue
		}
		out[k] = v
	}
	return out
}

// stripActionInputSchema strips presentation keys from an action's input
// schema and from each nested property descriptor under "properties".
func stripActionInputSchema(inputSchema map[string]any) map[string]any {
	out := stripPresentationKeys(inputSchema)
	if out == nil {
		return nil
	}
	if props, ok := out["properties"].(map[string]any); ok {
		stripped := make(map[string]any, len(props))
		for name, raw := range props {
			if propSchema, ok := raw.(map[string]any); ok {
				stripped[name] = stripPresentationKeys(propSchema)
			} else {
				stripped[name] = raw
			}
		}
		out["properties"] = stripped
	}
	return out
}

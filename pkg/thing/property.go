package thing

// ValueForwarder pushes a newly-set property value out to the physical or
// virtual device backing a Property, returning the value actually applied
// (which may differ from the requested one, e.g. after device-side clamping).
type ValueForwarder interface {
	SetValue(value any) (any, error)
}

// Property represents an individual state value of a Thing.
type Property struct {
	name           string
	lastValue      any
	valueForwarder ValueForwarder
	hrefPrefix     string
	href           string
	metadata       map[string]any

	schemas *schemaCache
}

// NewProperty creates a Property. With a nil forwarder, SetValue stores the
// validated value directly; metadata marking "readOnly": true makes SetValue
// reject every write.
func NewProperty(name string, initialValue any, forwarder ValueForwarder, metadata map[string]any) *Property {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Property{
		name:           name,
		lastValue:      initialValue,
		valueForwarder: forwarder,
		href:           "/properties/" + name,
		metadata:       metadata,
		schemas:        newSchemaCache(),
	}
}

// SetHrefPrefix sets the prefix prepended to this property's href.
func (p *Property) SetHrefPrefix(prefix string) {
	p.hrefPrefix = prefix
}

// GetHref returns the full href, including prefix.
func (p *Property) GetHref() string {
	return p.hrefPrefix + p.href
}

// GetName returns the property name.
func (p *Property) GetName() string {
	return p.name
}

// GetMetadata returns the property's raw metadata map.
func (p *Property) GetMetadata() map[string]any {
	return p.metadata
}

// GetValue returns the last known value of the property.
func (p *Property) GetValue() any {
	return p.lastValue
}

// AsPropertyDescription returns the Thing Description fragment for this
// property: its metadata with a "property" link to its href appended to (or
// started for) the "links" array.
func (p *Property) AsPropertyDescription() map[string]any {
	description := make(map[string]any, len(p.metadata)+1)
	for k, v := range p.metadata {
		description[k] = v
	}

	link := map[string]any{"rel": "property", "href": p.GetHref()}
	switch existing := description["links"].(type) {
	case []any:
		description["links"] = append(existing, link)
	default:
		description["links"] = []any{link}
	}
	return description
}

// validateValue checks value against readOnly and the JSON-Schema-shaped
// constraints (type/minimum/maximum/enum/etc.) carried in metadata.
// readOnly is a webthing extension with no enforcement meaning in plain
// JSON-Schema, so it is checked explicitly rather than delegated.
func (p *Property) validateValue(value any) error {
	if ro, ok := p.metadata["readOnly"].(bool); ok && ro {
		return ErrReadOnly
	}
	return p.schemas.validate(p.name, stripPresentationKeys(p.metadata), value)
}

// SetValue validates and sets the property's value, forwarding it to the
// device via the configured ValueForwarder if one is set.
func (p *Property) SetValue(value any) error {
	if err := p.validateValue(value); err != nil {
		return err
	}

	if p.valueForwarder != nil {
		applied, err := p.valueForwarder.SetValue(value)
		if err != nil {
			return err
		}
		p.lastValue = applied
		return nil
	}

	p.lastValue = value
	return nil
}

// SetCachedValue sets the property's last-known value without validation or
// forwarding, for use when a device reports a value out of band.
func (p *Property) SetCachedValue(value any) {
	p.lastValue = value
}

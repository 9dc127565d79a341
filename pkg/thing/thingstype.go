package thing

import "strconv"

// ThingsType selects between serving a single Thing at the server's base
// path, or an indexed collection of Things each mounted under
// "<base>/<index>", mirroring the original crate's ThingsType enum.
type ThingsType struct {
	single     *Thing
	multiple   []*Thing
	deviceName string
}

// Single wraps one Thing to be served at the base path.
func Single(t *Thing) ThingsType {
	return ThingsType{single: t}
}

// Multiple wraps a list of Things, each served at "<base>/<index>", with
// deviceName broadcast via mDNS.
func Multiple(things []*Thing, deviceName string) ThingsType {
	return ThingsType{multiple: things, deviceName: deviceName}
}

// IsSingle reports whether this is a single-Thing collection.
func (tt ThingsType) IsSingle() bool {
	return tt.single != nil
}

// DeviceName returns the broadcast name: the one Thing's title for Single,
// or the configured deviceName for Multiple.
func (tt ThingsType) DeviceName() string {
	if tt.single != nil {
		return tt.single.GetTitle()
	}
	return tt.deviceName
}

// Things returns every Thing in the collection, in mount order.
func (tt ThingsType) Things() []*Thing {
	if tt.single != nil {
		return []*Thing{tt.single}
	}
	return tt.multiple
}

// ThingAt resolves the Thing at the given URL segment: "" (or any value, in
// the single case) for Single, or a valid integer index for Multiple.
func (tt ThingsType) ThingAt(idStr string) (*Thing, bool) {
	if tt.single != nil {
		return tt.single, true
	}
	idx, err := strconv.Atoi(idStr)
	if err != nil || idx < 0 || idx >= len(tt.multiple) {
		return nil, false
	}
	return tt.multiple[idx], true
}

// ApplyHrefPrefixes sets each Thing's href prefix per section 4.8: the
// single Thing gets basePath itself, each Thing in a collection gets
// "<basePath>/<index>".
func (tt ThingsType) ApplyHrefPrefixes(basePath string) {
	if tt.single != nil {
		tt.single.SetHrefPrefix(basePath)
		return
	}
	for i, t := range tt.multiple {
		t.SetHrefPrefix(basePath + "/" + strconv.Itoa(i))
	}
}

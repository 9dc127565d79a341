package thing

import "time"

// timestampLayout matches the original webthing protocol's fixed-offset UTC
// format: no sub-second precision, always "+00:00" rather than "Z".
const timestampLayout = "2006-01-02T15:04:05+00:00"

// timestamp returns the current time formatted per timestampLayout.
func timestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

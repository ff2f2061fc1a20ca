// Package response serves the canned replies of a tenant. The backing JSON
// file maps trigger text to an ordered list of message segments and is read
// fresh on every lookup so edits take effect without a restart.
package response

import (
	"encoding/json"
	"os"

	"github.com/friendsofgo/errors"
	"github.com/warunyoud/botv2Test/internal/eko"
)

// Map holds the parsed trigger-to-segments mapping of one response file.
type Map map[string][]eko.Segment

// Load reads and parses a tenant response file.
func Load(path string) (Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response file")
	}
	var m Map
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, errors.Wrap(err, "failed to parse response file")
	}
	return m, nil
}

// Lookup returns the configured segments for trigger, or false when the
// trigger is absent or maps to an empty list.
func (m Map) Lookup(trigger string) ([]eko.Segment, bool) {
	segments, ok := m[trigger]
	if !ok || len(segments) == 0 {
		return nil, false
	}
	return segments, true
}

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Update is one key/value pair delivered by the config channel.
type Update struct {
	Key   Key   `json:"key"`
	Value int64 `json:"value"`
}

// Wire names the companion app and its settings page use for each key.
var wireKeys = map[string]Key{
	"COLOR_KEY":  KeyAccent,
	"BG_KEY":     KeyBackground,
	"ACCENT":     KeyAccent,
	"BACKGROUND": KeyBackground,
	"color":      KeyAccent,
	"bg":         KeyBackground,
}

// DecodeUpdates parses a config message such as {"COLOR_KEY":65535,"BG_KEY":0}.
// Unknown names are skipped. A known name with a non-integer or out-of-range
// value rejects the whole message with ErrMalformed.
func DecodeUpdates(payload []byte) ([]Update, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []Update
	for _, name := range names {
		key, ok := wireKeys[name]
		if !ok {
			key, ok = wireKeys[strings.ToUpper(name)]
		}
		if !ok {
			continue
		}
		v, err := wireInt(raw[name])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
		}
		if v < 0 || v > 0xFFFFFF {
			return nil, fmt.Errorf("%w: %s: 0x%X outside 24-bit range", ErrMalformed, name, v)
		}
		out = append(out, Update{Key: key, Value: v})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no known keys", ErrMalformed)
	}
	return out, nil
}

func wireInt(v any) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("want integer, got %T", v)
	}
	return n.Int64()
}

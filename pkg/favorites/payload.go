package favorites

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"tableflip.dev/finder/pkg/folder"
)

// ErrInvalidPayload is returned for drag payloads that are not a folder
// record.
var ErrInvalidPayload = errors.New("favorites: invalid folder payload")

// DecodePayload validates a serialized folder record dropped on the
// favorites list and returns the favorite it describes.
func DecodePayload(data []byte) (folder.Favorite, error) {
	invalid := func(reason string) (folder.Favorite, error) {
		return folder.Favorite{}, fmt.Errorf("%w: %s", ErrInvalidPayload, reason)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var fields map[string]json.RawMessage
	if err := dec.Decode(&fields); err != nil {
		return invalid("not a json object")
	}
	if fields == nil {
		return invalid("not a json object")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return invalid("trailing data")
	}

	var fav folder.Favorite
	raw, ok := fields["id"]
	if !ok {
		return invalid("missing id")
	}
	if err := json.Unmarshal(raw, &fav.ID); err != nil || strings.TrimSpace(fav.ID) == "" {
		return invalid("id must be a non-empty string")
	}
	if folder.IsTemp(fav.ID) || folder.IsRoot(fav.ID) {
		return invalid("id does not name a stored folder")
	}

	if raw, ok := fields["name"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &fav.Name); err != nil {
			return invalid("name must be a string")
		}
	}

	if raw, ok := fields["position"]; ok && !isNull(raw) {
		var pos map[string]json.RawMessage
		if err := json.Unmarshal(raw, &pos); err != nil || pos == nil {
			return invalid("position must be an object")
		}
		for _, axis := range []string{"x", "y"} {
			v, ok := pos[axis]
			if !ok {
				continue
			}
			var f float64
			if err := json.Unmarshal(v, &f); err != nil {
				return invalid("position." + axis + " must be a number")
			}
		}
	}
	return fav, nil
}

// EncodePayload serializes n the way DecodePayload expects it.
func EncodePayload(n *folder.Node) ([]byte, error) {
	if n == nil {
		return nil, ErrInvalidPayload
	}
	return json.Marshal(n)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

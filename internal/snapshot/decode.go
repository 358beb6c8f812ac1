// Package snapshot decodes powermetrics samples into typed snapshots.
//
// powermetrics writes each sample as a property list (XML with -f plist).
// Decode also accepts the binary and OpenStep/GNUstep plist encodings and
// JSON, which keeps fixtures and replay files readable. All encodings go
// through the same path: parse into a generic document, then project it onto
// Snapshot with weak typing so integer, real, and numeric-string values all
// land in the float fields.
package snapshot

import (
	"bytes"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	jsoniter "github.com/json-iterator/go"
	"howett.net/plist"

	"github.com/rileyhilliard/mxtop/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Decode parses one complete frame into a Snapshot. It holds no state and is
// safe to call from multiple goroutines. Failures carry errors.ErrDecode.
func Decode(frame []byte) (*Snapshot, error) {
	doc := bytes.TrimSpace(frame)
	if len(doc) == 0 {
		return nil, errors.New(errors.ErrDecode, "Empty sample", "")
	}

	raw, err := parseDocument(doc)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode, "Sample is not a valid document", "")
	}

	root, ok := raw.(map[string]interface{})
	if !ok {
		return nil, errors.New(errors.ErrDecode,
			fmt.Sprintf("Sample root is %T, expected a dictionary", raw), "")
	}

	snap := &Snapshot{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           snap,
	})
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode, "Cannot build sample decoder", "")
	}
	if err := dec.Decode(root); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrDecode, "Sample has an unexpected shape", "")
	}

	return snap, nil
}

// parseDocument turns raw bytes into a generic document. Text that opens
// like JSON is tried as JSON first; OpenStep plists also open with '{', so a
// JSON failure falls through to the plist parser.
func parseDocument(doc []byte) (interface{}, error) {
	var raw interface{}

	if doc[0] == '{' || doc[0] == '[' {
		if err := json.Unmarshal(doc, &raw); err == nil {
			return raw, nil
		}
		raw = nil
	}

	if _, err := plist.Unmarshal(doc, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

package accountsource

import (
	"bytes"
	"errors"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// encMode uses Core Deterministic Encoding so the same list always encodes
// to the same bytes.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("accountsource: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("accountsource: CBOR decoder initialization failed: " + err.Error())
	}
}

// MarshalCBOR encodes list with deterministic CBOR.
func MarshalCBOR(list List) ([]byte, error) {
	return encMode.Marshal(list)
}

// UnmarshalCBOR decodes a CBOR encoded list.
func UnmarshalCBOR(data []byte) (List, error) {
	var list List
	if err := decMode.Unmarshal(data, &list); err != nil {
		return List{}, err
	}
	return list, nil
}

// MarshalYAML encodes list as YAML.
func MarshalYAML(list List) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(list); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML decodes a YAML encoded list. Unknown keys are rejected so
// that misspelled attribute names do not silently drop values.
func UnmarshalYAML(data []byte) (List, error) {
	var list List
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&list); err != nil {
		if errors.Is(err, io.EOF) {
			return List{}, nil
		}
		return List{}, err
	}
	return list, nil
}

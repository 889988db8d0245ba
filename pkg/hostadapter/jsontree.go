package hostadapter

import (
	"encoding/json"
	"fmt"
)

// jsonNode is the on-disk shape the CLI reads a demo CDTS tree from. JSON
// has no int/float distinction, so each leaf names its intended primitive
// type explicitly rather than leaving it to be inferred.
type jsonNode struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
	Items []jsonNode      `json:"items,omitempty"`
}

// DecodeJSONTree parses a JSON array of typed nodes into the []any shape
// NewNativeSource expects. Each node is either {"type": "array", "items":
// [...]} or {"type": "<primitive>", "value": <json value>}.
func DecodeJSONTree(data []byte) ([]any, error) {
	var nodes []jsonNode
	if err := json.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("decode json tree: %w", err)
	}
	return decodeNodes(nodes)
}

func decodeNodes(nodes []jsonNode) ([]any, error) {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		v, err := decodeNode(n)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func decodeNode(n jsonNode) (any, error) {
	if n.Type == "array" {
		return decodeNodes(n.Items)
	}

	switch n.Type {
	case "null":
		return nil, nil
	case "float64":
		var v float64
		return v, json.Unmarshal(n.Value, &v)
	case "float32":
		var v float64
		if err := json.Unmarshal(n.Value, &v); err != nil {
			return nil, err
		}
		return float32(v), nil
	case "int8":
		var v int8
		return v, json.Unmarshal(n.Value, &v)
	case "int16":
		var v int16
		return v, json.Unmarshal(n.Value, &v)
	case "int32":
		var v int32
		return v, json.Unmarshal(n.Value, &v)
	case "int64":
		var v int64
		return v, json.Unmarshal(n.Value, &v)
	case "uint8":
		var v uint8
		return v, json.Unmarshal(n.Value, &v)
	case "uint16":
		var v uint16
		return v, json.Unmarshal(n.Value, &v)
	case "uint32":
		var v uint32
		return v, json.Unmarshal(n.Value, &v)
	case "uint64":
		var v uint64
		return v, json.Unmarshal(n.Value, &v)
	case "bool":
		var v bool
		return v, json.Unmarshal(n.Value, &v)
	case "string":
		var v string
		return v, json.Unmarshal(n.Value, &v)
	default:
		return nil, fmt.Errorf("unknown node type %q", n.Type)
	}
}

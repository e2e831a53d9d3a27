// Package fixture builds canonical result trees from YAML documents.
//
// Mappings become Map items, sequences become List items and scalars become
// Value items typed by their YAML tag. Besides the core YAML tags the
// following local tags are understood:
//
//	!enum, !xml      text variants
//	!uuid            Uuid
//	!json            Json value, validated text
//	!datetime        RFC 3339 DateTime
//	!bigint          BigInt
//	!bytes, !!binary base64 Bytes
//	!object          Object value: a mapping (repeated keys allowed) or a
//	                 sequence of single-entry mappings
//	!list            List value
//	!rawjson         Json item passed through untouched
//
// An anchored node is a shared sub-tree: the node itself and every alias
// to it become holders of one Ref.
//
//	owner: &owner {id: 1}
//	reviewer: *owner
package fixture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spicyzboss/prisma-client-go/prisma/core"
	"github.com/spicyzboss/prisma-client-go/prisma/omap"
	"gopkg.in/yaml.v3"
)

const (
	tagStr       = "!!str"
	tagBool      = "!!bool"
	tagInt       = "!!int"
	tagFloat     = "!!float"
	tagNull      = "!!null"
	tagTimestamp = "!!timestamp"
	tagBinary    = "!!binary"
	tagMap       = "!!map"
	tagSeq       = "!!seq"

	tagEnum     = "!enum"
	tagXML      = "!xml"
	tagUUID     = "!uuid"
	tagJSON     = "!json"
	tagDateTime = "!datetime"
	tagBigInt   = "!bigint"
	tagBytes    = "!bytes"
	tagObject   = "!object"
	tagList     = "!list"
	tagRawJSON  = "!rawjson"
)

// ErrEmpty is returned for a document without content.
var ErrEmpty = errors.New("fixture is empty")

// Error reports a node that cannot be turned into a result tree.
type Error struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fixture:%d:%d: %s: %v", e.Line, e.Column, e.Msg, e.Err)
	}
	return fmt.Sprintf("fixture:%d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func nodeError(n *yaml.Node, err error, format string, args ...any) *Error {
	return &Error{Line: n.Line, Column: n.Column, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Parse builds a result tree from a YAML document.
func Parse(data []byte) (core.Item, error) {
	root, err := document(data)
	if err != nil {
		return core.Item{}, err
	}
	l := &loader{refs: make(map[*yaml.Node]*core.Ref)}
	return l.item(root)
}

// ParseValue builds a single value from a YAML document. Mappings become
// Objects and sequences become Lists; anchors are followed but not shared.
func ParseValue(data []byte) (core.Value, error) {
	root, err := document(data)
	if err != nil {
		return core.Value{}, err
	}
	return value(root)
}

// Load reads a YAML document from r and parses it.
func Load(r io.Reader) (core.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Item{}, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// LoadFile parses the YAML file at path.
func LoadFile(path string) (core.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Item{}, fmt.Errorf("read fixture: %w", err)
	}
	item, err := Parse(data)
	if err != nil {
		return core.Item{}, fmt.Errorf("%s: %w", path, err)
	}
	return item, nil
}

func document(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, ErrEmpty
	}
	return doc.Content[0], nil
}

type loader struct {
	// shared sub-trees by anchored node
	refs map[*yaml.Node]*core.Ref
}

func (l *loader) item(n *yaml.Node) (core.Item, error) {
	if n.Kind == yaml.AliasNode {
		if ref, ok := l.refs[n.Alias]; ok {
			return core.RefItem(ref.Share()), nil
		}
		// the anchor sits inside a value, so there is nothing to share
		return l.item(n.Alias)
	}

	it, err := l.node(n)
	if err != nil {
		return core.Item{}, err
	}
	if n.Anchor != "" {
		ref := core.NewRef(it)
		l.refs[n] = ref
		return core.RefItem(ref), nil
	}
	return it, nil
}

func (l *loader) node(n *yaml.Node) (core.Item, error) {
	tag := n.ShortTag()

	switch n.Kind {
	case yaml.MappingNode:
		if tag == tagObject {
			v, err := value(n)
			return core.ValueItem(v), err
		}
		if tag != tagMap {
			return core.Item{}, nodeError(n, nil, "unsupported tag %s on mapping", tag)
		}
		m := omap.New[core.Item](len(n.Content) / 2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := mapKey(n.Content[i])
			if err != nil {
				return core.Item{}, err
			}
			if m.Has(key) {
				return core.Item{}, nodeError(n.Content[i], nil, "duplicate key %q", key)
			}
			child, err := l.item(n.Content[i+1])
			if err != nil {
				return core.Item{}, err
			}
			m.Set(key, child)
		}
		return core.MapItem(m), nil

	case yaml.SequenceNode:
		if tag == tagList || tag == tagObject {
			v, err := value(n)
			return core.ValueItem(v), err
		}
		if tag != tagSeq {
			return core.Item{}, nodeError(n, nil, "unsupported tag %s on sequence", tag)
		}
		items := make([]core.Item, 0, len(n.Content))
		for _, c := range n.Content {
			child, err := l.item(c)
			if err != nil {
				return core.Item{}, err
			}
			items = append(items, child)
		}
		return core.ListItem(items...), nil

	case yaml.ScalarNode:
		if tag == tagRawJSON {
			if !json.Valid([]byte(n.Value)) {
				return core.Item{}, nodeError(n, nil, "invalid JSON in %s", tagRawJSON)
			}
			return core.JSONItem(json.RawMessage(n.Value)), nil
		}
		v, err := scalar(n)
		return core.ValueItem(v), err
	}
	return core.Item{}, nodeError(n, nil, "unexpected node kind %v", n.Kind)
}

func value(n *yaml.Node) (core.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return value(n.Alias)

	case yaml.MappingNode:
		fields := make([]core.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := mapKey(n.Content[i])
			if err != nil {
				return core.Value{}, err
			}
			v, err := value(n.Content[i+1])
			if err != nil {
				return core.Value{}, err
			}
			fields = append(fields, core.Field{Key: key, Value: v})
		}
		return core.ObjectValue(fields...), nil

	case yaml.SequenceNode:
		if n.ShortTag() == tagObject {
			return pairs(n)
		}
		list := make([]core.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := value(c)
			if err != nil {
				return core.Value{}, err
			}
			list = append(list, v)
		}
		return core.ListValue(list...), nil

	case yaml.ScalarNode:
		return scalar(n)
	}
	return core.Value{}, nodeError(n, nil, "unexpected node kind %v", n.Kind)
}

// pairs reads an Object written as a sequence of single-entry mappings.
func pairs(n *yaml.Node) (core.Value, error) {
	fields := make([]core.Field, 0, len(n.Content))
	for _, c := range n.Content {
		if c.Kind == yaml.AliasNode {
			c = c.Alias
		}
		if c.Kind != yaml.MappingNode || len(c.Content) != 2 {
			return core.Value{}, nodeError(c, nil, "%s entries must be single-entry mappings", tagObject)
		}
		key, err := mapKey(c.Content[0])
		if err != nil {
			return core.Value{}, err
		}
		v, err := value(c.Content[1])
		if err != nil {
			return core.Value{}, err
		}
		fields = append(fields, core.Field{Key: key, Value: v})
	}
	return core.ObjectValue(fields...), nil
}

func mapKey(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", nodeError(n, nil, "map keys must be scalars")
	}
	return n.Value, nil
}

func scalar(n *yaml.Node) (core.Value, error) {
	text := n.Value
	switch tag := n.ShortTag(); tag {
	case tagNull:
		return core.Null(), nil

	case tagStr:
		return core.StringValue(text), nil

	case tagEnum:
		return core.EnumValue(text), nil

	case tagXML:
		return core.XMLValue(text), nil

	case tagBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return core.Value{}, nodeError(n, err, "invalid boolean %q", text)
		}
		return core.BooleanValue(b), nil

	case tagInt:
		var i int64
		if err := n.Decode(&i); err != nil {
			return core.Value{}, nodeError(n, err, "invalid integer %q", text)
		}
		return core.IntValue(i), nil

	case tagBigInt:
		i, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64)
		if err != nil {
			return core.Value{}, nodeError(n, err, "invalid bigint %q", text)
		}
		return core.BigIntValue(i), nil

	case tagFloat:
		switch strings.ToLower(strings.TrimLeft(text, "+-")) {
		case ".inf", ".nan":
			return core.Value{}, nodeError(n, core.ErrDecimalNotFinite, "float %q", text)
		}
		d, err := core.ParseDecimal(strings.ReplaceAll(text, "_", ""))
		if err != nil {
			return core.Value{}, nodeError(n, err, "invalid float %q", text)
		}
		return core.FloatValue(d), nil

	case tagTimestamp:
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return core.Value{}, nodeError(n, err, "invalid timestamp %q", text)
		}
		return core.DateTimeValue(t), nil

	case tagDateTime:
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return core.Value{}, nodeError(n, err, "invalid datetime %q", text)
		}
		return core.DateTimeValue(t), nil

	case tagUUID:
		id, err := uuid.Parse(text)
		if err != nil {
			return core.Value{}, nodeError(n, err, "invalid uuid %q", text)
		}
		return core.UUIDValue(id), nil

	case tagJSON:
		if !json.Valid([]byte(text)) {
			return core.Value{}, nodeError(n, nil, "invalid JSON %q", text)
		}
		return core.JSONValue(text), nil

	case tagBytes, tagBinary:
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return core.Value{}, nodeError(n, err, "invalid base64")
		}
		return core.BytesValue(b), nil

	default:
		return core.Value{}, nodeError(n, nil, "unsupported tag %s", tag)
	}
}

// Dump writes a value back as YAML using the same tags, so that ParseValue
// reads it back as an equal value. Floats are written from their decimal
// text and keep their scale.
func Dump(v core.Value) ([]byte, error) {
	n, err := dumpNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode fixture: %w", err)
	}
	return buf.Bytes(), nil
}

func dumpNode(v core.Value) (*yaml.Node, error) {
	tagged := func(tag, text string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
	}

	switch v.Kind {
	case core.KindNull:
		return tagged(tagNull, "null"), nil
	case core.KindString:
		return tagged(tagStr, v.Str), nil
	case core.KindBoolean:
		return tagged(tagBool, strconv.FormatBool(v.Bool)), nil
	case core.KindEnum:
		return tagged(tagEnum, v.Str), nil
	case core.KindXML:
		return tagged(tagXML, v.Str), nil
	case core.KindJSON:
		return tagged(tagJSON, v.Str), nil
	case core.KindInt:
		return tagged(tagInt, strconv.FormatInt(v.Int, 10)), nil
	case core.KindBigInt:
		return tagged(tagBigInt, strconv.FormatInt(v.Int, 10)), nil
	case core.KindUUID:
		return tagged(tagUUID, v.UUID.String()), nil
	case core.KindDateTime:
		return tagged(tagDateTime, v.Time.Format(time.RFC3339Nano)), nil
	case core.KindBytes:
		return tagged(tagBytes, base64.StdEncoding.EncodeToString(v.Bytes)), nil
	case core.KindFloat:
		if _, err := core.DecimalFloat64(v.Decimal); err != nil {
			return nil, err
		}
		text := core.DecimalString(v.Decimal)
		if !strings.ContainsAny(text, ".e") {
			// plain digits would read back as !!int
			text += ".0"
		}
		return tagged(tagFloat, text), nil
	case core.KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagList}
		for _, e := range v.List {
			c, err := dumpNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case core.KindObject:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagObject}
		for _, f := range v.Object {
			c, err := dumpNode(f.Value)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{
				Kind:    yaml.MappingNode,
				Content: []*yaml.Node{{Kind: yaml.ScalarNode, Value: f.Key}, c},
			})
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported value kind %v", v.Kind)
}

package defaults

import (
	"strconv"

	"github.com/beevik/etree"

	"github.com/arthur-debert/prefsync/pkg/errors"
	"github.com/arthur-debert/prefsync/pkg/types"
)

// parsePlist decodes the XML plist produced by `defaults export` into
// typed values keyed by preference key. Keys holding values outside the
// supported union (dictionaries, data, dates) are omitted.
func parsePlist(data []byte) (map[string]types.Value, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrPreferenceRead, "failed to parse plist")
	}

	root := doc.SelectElement("plist")
	if root == nil {
		return nil, errors.New(errors.ErrPreferenceRead, "not a plist document")
	}
	dict := root.SelectElement("dict")
	if dict == nil {
		// an empty domain exports as an empty plist
		return map[string]types.Value{}, nil
	}

	out := map[string]types.Value{}
	children := dict.ChildElements()
	for i := 0; i+1 < len(children); i += 2 {
		keyElem, valueElem := children[i], children[i+1]
		if keyElem.Tag != "key" {
			return nil, errors.Newf(errors.ErrPreferenceRead,
				"malformed plist dict: expected key, got <%s>", keyElem.Tag)
		}
		value, ok := plistValue(valueElem)
		if !ok {
			continue
		}
		out[keyElem.Text()] = value
	}
	return out, nil
}

// plistValue converts one plist value element into a Value. The second
// return is false for element types outside the supported union.
func plistValue(elem *etree.Element) (types.Value, bool) {
	switch elem.Tag {
	case "true":
		return types.BoolValue(true), true
	case "false":
		return types.BoolValue(false), true
	case "integer":
		i, err := strconv.ParseInt(elem.Text(), 10, 64)
		if err != nil {
			return types.Value{}, false
		}
		return types.IntValue(i), true
	case "real":
		f, err := strconv.ParseFloat(elem.Text(), 64)
		if err != nil {
			return types.Value{}, false
		}
		return types.FloatValue(f), true
	case "string":
		return types.StringValue(elem.Text()), true
	case "array":
		var elems []types.Value
		for _, child := range elem.ChildElements() {
			value, ok := plistValue(child)
			if !ok {
				return types.Value{}, false
			}
			elems = append(elems, value)
		}
		return types.ListValue(elems...), true
	default:
		return types.Value{}, false
	}
}

package object

import (
	"bytes"
	"errors"
	"strings"

	"github.com/jsnml/gogit/internal/readutil"
)

// ErrKVLMInvalid is returned when a key/value-list-with-message blob
// cannot be parsed
var ErrKVLMInvalid = errors.New("invalid kvlm data")

// kvlmEntry represents one key and all the values associated to it,
// in the order they were added. Git objects such as commits and tags
// reuse the same key multiple times (ex. "parent" on a merge commit),
// so a plain map isn't enough: both the key order and the per-key
// value order have to survive a parse/serialize round-trip.
type kvlmEntry struct {
	key    string
	values []string
}

// kvlm (key/value list with message) is the generic shape shared by
// commit and tag objects: an ordered list of "key value" lines,
// followed by a blank line, followed by a free-form message.
//
// A value that spans multiple lines is stored unfolded (continuation
// lines, which start with a single space in the raw encoding, have
// that leading space stripped and are joined with "\n").
type kvlm struct {
	entries []kvlmEntry
	message string
}

// newKVLM returns an empty kvlm ready to be populated with add()
func newKVLM() *kvlm {
	return &kvlm{}
}

// add appends a value for key, preserving insertion order
func (k *kvlm) add(key, value string) {
	for i := range k.entries {
		if k.entries[i].key == key {
			k.entries[i].values = append(k.entries[i].values, value)
			return
		}
	}
	k.entries = append(k.entries, kvlmEntry{key: key, values: []string{value}})
}

// get returns the first value associated to key, if any
func (k *kvlm) get(key string) (string, bool) {
	for i := range k.entries {
		if k.entries[i].key == key {
			if len(k.entries[i].values) == 0 {
				return "", false
			}
			return k.entries[i].values[0], true
		}
	}
	return "", false
}

// getOrEmpty returns the first value associated to key, or an empty
// string if key was never set
func (k *kvlm) getOrEmpty(key string) string {
	v, _ := k.get(key)
	return v
}

// getAll returns every value associated to key, in insertion order
func (k *kvlm) getAll(key string) []string {
	for i := range k.entries {
		if k.entries[i].key == key {
			out := make([]string, len(k.entries[i].values))
			copy(out, k.entries[i].values)
			return out
		}
	}
	return nil
}

// parseKVLM parses a buffer formatted as a key/value-list-with-message
func parseKVLM(data []byte) (*kvlm, error) {
	k := newKVLM()
	offset := 0
	for {
		line := readutil.ReadTo(data[offset:], '\n')

		// an empty line marks the end of the key/value section; anything
		// coming after belongs to the message
		if len(line) == 0 {
			offset++
			if offset <= len(data) {
				k.message = string(data[offset:])
			}
			return k, nil
		}

		lineEnd := offset + len(line)
		kv := bytes.SplitN(line, []byte{' '}, 2)
		if len(kv) != 2 {
			return nil, ErrKVLMInvalid
		}
		key := string(kv[0])
		value := string(kv[1])
		offset = lineEnd + 1 // +1 to skip the \n

		// fold continuation lines (they start with a single space) into
		// the current value, joined by "\n"
		for offset < len(data) && data[offset] == ' ' {
			cont := readutil.ReadTo(data[offset+1:], '\n')
			value += "\n" + string(cont)
			offset += len(cont) + 2 // +1 for the leading space, +1 for \n
		}

		k.add(key, value)

		if offset >= len(data) {
			return k, nil
		}
	}
}

// serialize returns the raw encoding of the kvlm: the key/value
// section, a blank line, then the message
func (k *kvlm) serialize() []byte {
	buf := new(bytes.Buffer)
	for _, e := range k.entries {
		for _, v := range e.values {
			buf.WriteString(e.key)
			buf.WriteByte(' ')
			// fold multi-line values back into continuation lines
			lines := strings.SplitAfter(v, "\n")
			for i, l := range lines {
				if i > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(l)
			}
			buf.WriteByte('\n')
		}
	}
	buf.WriteByte('\n')
	buf.WriteString(k.message)
	return buf.Bytes()
}

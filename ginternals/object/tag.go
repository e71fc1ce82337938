package object

import (
	"fmt"

	"github.com/jsnml/gogit/ginternals/githash"
)

// TagParams represents all the data needed to create a Tag
type TagParams struct {
	Target  *Object
	Name    string
	Tagger  Signature
	Message string
}

// Tag represents a Tag object
type Tag struct {
	rawObject *Object

	tagger  Signature
	tag     string
	message string

	id     githash.Oid
	target githash.Oid

	typ Type

	hash githash.Hash
}

// NewTag creates a new Tag object
func NewTag(hash githash.Hash, p *TagParams) *Tag {
	t := &Tag{
		target:  p.Target.ID(),
		typ:     p.Target.Type(),
		tag:     p.Name,
		tagger:  p.Tagger,
		message: p.Message,
		hash:    hash,
	}
	t.rawObject = t.toObject(hash)
	t.id = t.rawObject.ID()
	return t
}

// NewTagFromObject creates a new Tag from a raw git object
//
// A tag has following format:
//
// object {sha}
// type {target_object_type}
// tag {tag_name}
// tagger {author_name} <{author_email}> {author_date_seconds} {author_date_timezone}
// {a blank line}
// {tag message}
func NewTagFromObject(o *Object) (*Tag, error) {
	if o.typ != TypeTag {
		return nil, fmt.Errorf("type %s is not a tag: %w", o.typ, ErrObjectInvalid)
	}

	data, err := parseKVLM(o.Bytes())
	if err != nil {
		return nil, fmt.Errorf("could not parse tag: %w", err)
	}

	tag := &Tag{
		id:        o.ID(),
		rawObject: o,
		hash:      o.hash,
		message:   data.message,
		tag:       data.getOrEmpty("tag"),
	}

	targetStr, ok := data.get("object")
	if !ok {
		return nil, fmt.Errorf("tag has no target: %w", ErrTagInvalid)
	}
	tag.target, err = o.hash.ConvertFromString(targetStr)
	if err != nil {
		return nil, fmt.Errorf("could not parse target id %#v: %w", targetStr, err)
	}

	typStr, ok := data.get("type")
	if !ok {
		return nil, fmt.Errorf("tag has no type: %w", ErrTagInvalid)
	}
	tag.typ, err = NewTypeFromString(typStr)
	if err != nil {
		return nil, fmt.Errorf("invalid object type %s: %w", typStr, err)
	}

	if taggerStr, ok := data.get("tagger"); ok {
		tag.tagger, err = NewSignatureFromBytes([]byte(taggerStr))
		if err != nil {
			return nil, fmt.Errorf("could not parse tagger [%s]: %w", taggerStr, err)
		}
	}

	// validate the tag
	if tag.tagger.IsZero() {
		return nil, fmt.Errorf("tag has no tagger: %w", ErrTagInvalid)
	}
	if tag.target.IsZero() {
		return nil, fmt.Errorf("tag has no target: %w", ErrTagInvalid)
	}
	if !tag.typ.IsValid() {
		return nil, fmt.Errorf("tag has no type: %w", ErrTagInvalid)
	}

	return tag, nil
}

// ID returns the SHA of the tag object
func (t *Tag) ID() githash.Oid {
	return t.id
}

// Target returns the ID of the object targeted by the tag
func (t *Tag) Target() githash.Oid {
	return t.target
}

// Type returns the type of the targeted object
func (t *Tag) Type() Type {
	return t.typ
}

// Name returns the tag's name
func (t *Tag) Name() string {
	return t.tag
}

// Tagger returns the Signature of the person that created the tag
func (t *Tag) Tagger() Signature {
	return t.tagger
}

// Message returns the tag's message
func (t *Tag) Message() string {
	return t.message
}

// ToObject returns the underlying Object
func (t *Tag) ToObject() *Object {
	return t.rawObject
}

// toObject serializes the tag using hash to compute the resulting
// Object's ID
func (t *Tag) toObject(hash githash.Hash) *Object {
	kv := newKVLM()
	kv.add("object", t.target.String())
	kv.add("type", t.Type().String())
	kv.add("tag", t.Name())
	kv.add("tagger", t.Tagger().String())
	kv.message = t.message
	return New(hash, TypeTag, kv.serialize())
}

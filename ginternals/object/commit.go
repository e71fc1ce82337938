package object

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jsnml/gogit/ginternals/githash"
	"github.com/jsnml/gogit/internal/readutil"
)

// ErrSignatureInvalid is an error thrown when the signature of an
// object couldn't be parsed
var ErrSignatureInvalid = fmt.Errorf("signature is invalid")

// Signature represents an author/tagger name, email, and time.
// The MVP commit object does not carry a signature of its own (it only
// has a tree, optional parents, and a message); Signature is kept
// around for Tag.Tagger, which does carry one.
type Signature struct {
	Time  time.Time
	Name  string
	Email string
}

// String returns a stringified version of the Signature
func (s Signature) String() string {
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.Time.Unix(), s.Time.Format("-0700"))
}

// IsZero returns whether the signature has Zero value
func (s Signature) IsZero() bool {
	return s.Time.IsZero() && s.Name == "" && s.Email == ""
}

// NewSignature generates a signature at the current date and time
func NewSignature(name, email string) Signature {
	return Signature{
		Name:  name,
		Email: email,
		Time:  time.Now(),
	}
}

// NewSignatureFromBytes returns a signature from an array of byte
//
// A signature has the following format:
// User Name <user.email@domain.tld> timestamp timezone
// Ex:
// Melvin Laplanche <melvin.wont.reply@gmail.com> 1566115917 -0700
func NewSignatureFromBytes(b []byte) (Signature, error) {
	sig := Signature{}

	// First we get the name which will have the following format
	// "User Name " (with the extra space)
	data := readutil.ReadTo(b, '<')
	if len(data) == 0 {
		if len(b) == 0 {
			return sig, fmt.Errorf("couldn't retrieve the name: %w", ErrSignatureInvalid)
		}
		return sig, fmt.Errorf("signature stopped after the name: %w", ErrSignatureInvalid)
	}
	sig.Name = strings.TrimSpace(string(data))
	offset := len(data) + 1 // +1 to skip the "<"
	if offset >= len(b) {
		if offset == len(b) {
			return sig, fmt.Errorf("couldn't retrieve the email: %w", ErrSignatureInvalid)
		}
		return sig, fmt.Errorf("signature stopped after the name: %w", ErrSignatureInvalid)
	}

	// Now we get the email, which is between "<" and ">"
	data = readutil.ReadTo(b[offset:], '>')
	if len(data) == 0 {
		return sig, fmt.Errorf("couldn't retrieve the email: %w", ErrSignatureInvalid)
	}
	sig.Email = string(data)
	// +2 to skip the "> "
	offset += len(data) + 2
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the email: %w", ErrSignatureInvalid)
	}

	// Next is the timestamp and the timezone
	timestamp := readutil.ReadTo(b[offset:], ' ')
	if len(timestamp) == 0 {
		return sig, fmt.Errorf("couldn't retrieve the timestamp: %w", ErrSignatureInvalid)
	}
	offset += len(timestamp) + 1 // +1 to skip the " "
	if offset >= len(b) {
		return sig, fmt.Errorf("signature stopped after the timestamp: %w", ErrSignatureInvalid)
	}

	t, err := strconv.ParseInt(string(timestamp), 10, 64)
	if err != nil {
		return sig, fmt.Errorf("invalid timestamp %s: %w", timestamp, err)
	}
	sig.Time = time.Unix(t, 0)

	// To get and set the timezone we can just parse the time with an empty
	// date and copy it over to the signature
	timezone := b[offset:]
	tz, err := time.Parse("-0700", string(timezone))
	if err != nil {
		return sig, fmt.Errorf("invalid timezone format %s: %w", timezone, err)
	}
	sig.Time = sig.Time.In(tz.Location())
	return sig, nil
}

// CommitOptions represents all the optional data available to create a commit
type CommitOptions struct {
	Message   string
	ParentsID []githash.Oid
}

// Commit represents a commit object.
//
// Following the scope of this implementation, a commit is reduced to
// its essentials: the tree it captures, the commits it descends from,
// and a message. There is no author/committer signature and no GPG
// signature.
type Commit struct {
	rawObject *Object

	message string

	parentIDs []githash.Oid
	treeID    githash.Oid

	hash githash.Hash
}

// NewCommit creates a new Commit object.
// Any provided Oids won't be checked.
func NewCommit(hash githash.Hash, treeID githash.Oid, opts *CommitOptions) *Commit {
	c := &Commit{
		treeID:    treeID,
		message:   opts.Message,
		parentIDs: opts.ParentsID,
		hash:      hash,
	}
	c.rawObject = c.toObject(hash)
	return c
}

// NewCommitFromObject creates a commit from a raw object
//
// A commit has following format:
//
// tree {sha}
// parent {sha}
// {a blank line}
// {commit message}
//
// Note:
// - A commit can have 0, 1, or many parents lines
//   The very first commit of a repo has no parents
//   A regular commit as 1 parent
//   A merge commit has 2 or more parents
func NewCommitFromObject(o *Object) (*Commit, error) {
	if o.typ != TypeCommit {
		return nil, fmt.Errorf("type %s is not a commit: %w", o.typ, ErrObjectInvalid)
	}

	data, err := parseKVLM(o.Bytes())
	if err != nil {
		return nil, fmt.Errorf("could not parse commit: %w", err)
	}

	ci := &Commit{
		rawObject: o,
		hash:      o.hash,
		message:   data.message,
	}

	treeStr, ok := data.get("tree")
	if !ok {
		return nil, fmt.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}
	ci.treeID, err = o.hash.ConvertFromString(treeStr)
	if err != nil {
		return nil, fmt.Errorf("could not parse tree id %#v: %w", treeStr, err)
	}

	for _, p := range data.getAll("parent") {
		oid, err := o.hash.ConvertFromString(p)
		if err != nil {
			return nil, fmt.Errorf("could not parse parent id %#v: %w", p, err)
		}
		ci.parentIDs = append(ci.parentIDs, oid)
	}

	if ci.treeID.IsZero() {
		return nil, fmt.Errorf("commit has no tree: %w", ErrCommitInvalid)
	}

	return ci, nil
}

// ID returns the SHA of the commit object
func (c *Commit) ID() githash.Oid {
	return c.rawObject.ID()
}

// Message returns the commit's message
func (c *Commit) Message() string {
	return c.message
}

// ParentIDs returns the list of SHA of the parent commits (if any)
// - The first commit of an orphan branch has 0 parents
// - A regular commit or the result of a fast-forward merge has 1 parent
// - A true merge (no fast-forward) as 2 or more parents
func (c *Commit) ParentIDs() []githash.Oid {
	out := make([]githash.Oid, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// TreeID returns the SHA of the commit's tree
func (c *Commit) TreeID() githash.Oid {
	return c.treeID
}

// ToObject returns the underlying Object
func (c *Commit) ToObject() *Object {
	return c.rawObject
}

// toObject serializes the commit using hash to compute the resulting
// Object's ID
func (c *Commit) toObject(hash githash.Hash) *Object {
	kv := newKVLM()
	kv.add("tree", c.treeID.String())
	for _, p := range c.parentIDs {
		kv.add("parent", p.String())
	}
	kv.message = c.message
	return New(hash, TypeCommit, kv.serialize())
}

// Package backend contains interfaces and implementations to store and
// retrieve data from the odb
package backend

import (
	"errors"

	"github.com/jsnml/gogit/ginternals"
	"github.com/jsnml/gogit/ginternals/githash"
	"github.com/jsnml/gogit/ginternals/object"
)

// Backend represents an object that can store and retrieve data
// from and to the odb
type Backend interface {
	// Close frees the resources
	Close() error

	// Init initializes a repository, creating HEAD as a symbolic
	// reference to the given branch name if it doesn't already exist
	Init(branchName string) error

	// Reference returns a stored reference from its name
	Reference(name string) (*ginternals.Reference, error)
	// WriteReference writes the given reference int the db. If the
	// reference already exists it will be overwritten
	WriteReference(ref *ginternals.Reference) error
	// WriteReferenceSafe writes the given reference in the db
	// ErrRefExists is returned if the reference already exists
	WriteReferenceSafe(ref *ginternals.Reference) error
	// WalkReferences runs the provided method on all the references
	WalkReferences(f RefWalkFunc) error

	// Object returns the object that has given oid
	Object(githash.Oid) (*object.Object, error)
	// HasObject returns whether an object exists in the odb
	HasObject(githash.Oid) (bool, error)
	// WriteObject adds an object to the odb
	WriteObject(*object.Object) (githash.Oid, error)
	// WalkLooseObjectIDs runs the provided method on all the known
	// loose object ids
	WalkLooseObjectIDs(f ObjectWalkFunc) error
}

// RefWalkFunc represents a function that will be applied on all references
// found by WalkReferences()
type RefWalkFunc = func(ref *ginternals.Reference) error

// WalkStop is a fake error used to tell a Walk method to stop early
// without that being reported as a failure
var WalkStop = errors.New("stop walking") //nolint // the linter expects all errors to start with Err, but since here we're faking an error we don't want that

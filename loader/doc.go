// Package loader resolves handler constructors against an explicit
// dependency registry.
//
// The message bus accepts handlers either as ready instances or as
// constructor functions. A Provider converts whatever was supplied into an
// instance; the default Instantiator does so by matching constructor
// parameters against registered dependencies and factories. There is no
// scanning or tag magic: everything a constructor can receive was registered
// explicitly.
package loader

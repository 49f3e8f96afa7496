// Package internalcheck holds static policy tests over the packages that
// handle secrets. They fail the build's tests when byte data is compared with
// == or bytes.Equal instead of in constant time, or when a format string
// prints values as hex with %x.
//
// The package has no API.
package internalcheck

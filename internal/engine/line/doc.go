// Package line implements LineContents: an immutable, styled sequence of
// characters used as the building block of a buffer. Values are cheap to
// copy and share backing storage; every mutating-looking operation returns
// a new value instead of modifying its receiver.
package line

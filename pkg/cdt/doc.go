// Package cdt implements the Common Data Types System (CDTS) in-memory data
// model: the tagged-union Value (cdt) and its array container Array (cdts),
// plus the Handle and Callable types a Value can carry.
//
// CDTS values are passed by reference between runtimes in the same process;
// this package defines the shape of that shared data, not a wire format. A
// Value never serializes itself — pkg/traverse and pkg/construct are the
// only code that walks a Value/Array tree, and they do so by calling back
// into caller-supplied visitor/builder code rather than producing bytes.
package cdt

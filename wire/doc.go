// Package wire implements the binary codec for the database's client
// wire protocol: scalar, array and composite value types, and the
// framed result-table layout returned by a procedure call.
//
// Every encoder/decoder pair in this package is a pure function of its
// input bytes; the only configurable state is the byte order used by
// Reader.Order, which exists solely to let tests exercise
// buffers the server never actually produces.
package wire

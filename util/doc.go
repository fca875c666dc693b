// Package util holds small helpers shared by the server and its
// configuration: byte-size parsing and slice membership.
package util

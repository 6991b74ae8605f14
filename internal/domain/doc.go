// Package domain contains the core types and port interfaces of the clip
// pipeline. It has no dependencies on transport, storage, or database
// packages; those implement the interfaces declared here.
package domain

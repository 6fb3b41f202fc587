// Package mmfile loads note tree backup files as byte slices. On unix the
// file is memory-mapped read-only; elsewhere it is read into memory. Either
// way the caller gets the bytes plus a cleanup func to release them.
package mmfile

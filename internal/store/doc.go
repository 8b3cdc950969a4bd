// Package store keeps the most recently received calendar and quote data in
// process memory. Writers replace data wholesale and readers take copies, so
// a document is always generated from one consistent snapshot; concurrent
// writers follow last write wins.
package store

// Package session manages the per-launch session directories that hold the
// merged profile of a running environment, and prunes the outdated ones.
// Each directory carries a .session meta file recording when and for which
// profile it was created.
package session

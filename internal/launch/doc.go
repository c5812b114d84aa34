// Package launch turns a resolved manager invocation into a running process.
// It knows nothing about profiles: callers hand it a Command holding the
// argv, the extra environment and the working directory.
package launch

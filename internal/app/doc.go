// Package app wires configuration, logging, the profile repository and the
// manager registry into the Context shared by the kenv commands.
package app

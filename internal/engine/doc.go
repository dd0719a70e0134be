// Package engine executes container lifecycle actions on behalf of the
// control channel.
//
// The channel hands a decoded resource name to an Engine and only cares about
// three outcomes: not found, engine unreachable, or unknown failure. Whether
// the action runs through the local Docker control socket or a podman
// subprocess is this package's concern alone.
package engine

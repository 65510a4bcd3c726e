// Package core defines the shared types used across logchan.
//
// Level is a bitmask: each severity (Fine, Debug, Info, Warning, Severe)
// owns one bit, and the composite masks All, Debugging and Production are
// bitwise ORs of them. A channel's threshold may be any mask; an entry
// passes when all of its bits are present in the threshold (see Passes).
//
// Entry carries the raw template and arguments of one log call. Templates
// use positional placeholders ({0}, {1,-8}, {2:x}) and are rendered by
// Format, never by the channel: every sink formats on its own terms.
//
// Subscribers is the ordered, handle-keyed callback list behind channel
// observers and sink pause listeners.
package core

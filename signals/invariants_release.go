//go:build release

package signals

const checkInvariants = false

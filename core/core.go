// Package core holds the value types and configuration shared by the
// vkstatus packages.
package core

// Destroyable describes anything holding native handles
// that have to be released explicitly.
type Destroyable interface {
	// Destroy releases the native handles held
	Destroy()
}

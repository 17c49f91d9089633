// Package family defines the host-independent model of a parametric family:
// one closed profile extruded to a depth, the parameters that drive it, and
// the dimension and equalisation constraints recorded against it.
// All linear values are millimetres. Bindings between elements are by
// parameter name, never by host handle.
package family

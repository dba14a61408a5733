package cir

// Version is the library version reported by the command-line tools.
// Overridable at link time with -ldflags "-X ...cir.Version=...".
var Version = "0.1.0"

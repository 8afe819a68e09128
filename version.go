package scientist

// Version is the library release.
var Version = "0.3.0"

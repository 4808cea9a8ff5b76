package crablang

// Version of the CrabLang interpreter.
const Version = "0.2.0"

// BuildDate may be stamped at link time via -ldflags.
var BuildDate = "unknown"

package version

// Version is the current version of csvlist.
// Can be overridden at build time with -ldflags "-X ...version.Version=..."
var Version = "0.4.0"

// Name is the application name.
const Name = "csvlist"

// Description is a short description of the application.
const Description = "Split delimited text columns into list columns"

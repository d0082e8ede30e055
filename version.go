package bounties

// Version is set by build flags: `git describe --tags`
var Version = "please set in makefile"

package main

import (
	"arc-setup/cmd" // CLI commands and execution logic
)

// main is the program entry point. It delegates to cmd.Execute, which parses
// the command line and runs the selected command.
//
// arc-setup prepares an Arc engine checkout for building:
//   - selects a compiler toolchain (msvc, clang or llvm) from the single positional
//     argument, or asks for one when none is given
//   - runs the matching project generator batch file
//   - for llvm, installs LLVM when clang is missing (install script or the Windows
//     installer fetched from a mirror list), installs the LLVM_v143 MSBuild toolset,
//     and patches the generated .vcxproj files to use it
//   - records what it did in a small JSON state file so cached downloads can be cleaned
//
// Failures are logged in red and exit with a non-zero status.
func main() {
	cmd.Execute()
}

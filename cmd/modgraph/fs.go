package main

import "github.com/davetashner/modgraph/internal/testable"

// cmdFS is the file system implementation used by CLI commands.
// Override in tests with a testable.MockFileSystem.
var cmdFS testable.FileSystem = testable.DefaultFS

// cmdGit opens repositories for --since and snapshots.
var cmdGit testable.GitOpener = testable.DefaultGitOpener

// Package fileutil discovers the directories of a folder tree for the inventory
// manifest.
//
// ScanDirectories walks a root directory depth-first with an explicit worklist
// and returns every subdirectory up to a maximum depth. The root itself is
// never part of the result and files are never reported.
//
// # Ignore Rules
//
// Each candidate directory is checked by an IgnoreMatcher before it is
// emitted or descended into. A match prunes the whole subtree:
//
//   - Hidden directories (leading ".") are ignored unless IncludeHidden is set.
//   - DefaultIgnoreDirs (.git, node_modules, build, ...) are always ignored,
//     including when IncludeHidden is set.
//   - User IgnorePatterns use filepath.Match syntax against the bare name,
//     e.g. "Temp*" or "backup-20??".
//
// # Usage
//
//	result, err := fileutil.ScanDirectories("/work", fileutil.ScanOptions{
//	    MaxDepth:       2,
//	    IgnorePatterns: []string{"Temp*"},
//	})
//	if err != nil {
//	    return err // root missing, not a directory, or bad options
//	}
//	for _, entry := range result.Entries {
//	    fmt.Println(entry.Depth, entry.Path)
//	}
//	for _, diag := range result.Diagnostics {
//	    fmt.Println("skipped:", diag)
//	}
//
// # Error Tolerance
//
// A subdirectory that cannot be listed is left out of the result, its subtree
// is not visited, and a diagnostic is recorded; siblings are still scanned.
// Directories at the maximum depth are never opened, so they are reported as
// long as they can be classified as directories.
package fileutil

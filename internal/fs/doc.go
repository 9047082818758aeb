// Package fs provides filesystem abstractions for testability and fault injection.
//
//   - [File]: an open file with write/sync capabilities
//   - [FileSystem]: the filesystem operations used by the local blob store
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility that injects open, write, sync and close failures
//
// Production code uses fs.Default. Tests inject a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("-00005-of-", fs.Fault{FailOnOpen: true})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// Filesystem operations carry no context.Context; they are not interruptible
// at the syscall level. Remote storage goes through blobstore instead.
package fs

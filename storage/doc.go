// Package storage defines the file storage boundary and the staging helpers
// built on it.
//
// A Storage keeps named files and can expose them as local filesystem paths,
// which is what a model that reads from disk needs. Stage writes an upload
// under a collision-free name and returns a StagedFile that is released
// exactly once; WithStaged scopes the file to a callback:
//
//	err := storage.WithStaged(ctx, store, ".wav", data, func(f *storage.StagedFile) error {
//	    return run(f.Path())
//	})
//
// The local subpackage implements Storage on a directory.
package storage

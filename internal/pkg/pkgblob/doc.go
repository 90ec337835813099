// Package pkgblob stores whole objects under flat keys.
//
// The local driver writes files into one directory. The s3, gcs and azure
// drivers write to a bucket or container of the respective cloud. Every
// driver returns pkgerror.ErrNotFound from Open when a key does not exist.
package pkgblob

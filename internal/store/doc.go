// Package store provides the output location trawl writes items to.
//
// A location is either a local directory path or a gocloud.dev bucket URL.
// Local directories are created on open, including missing parents, and are
// read and written as plain files: every regular file counts as an item and
// nothing but the items is written. Bucket URLs go through gocloud.dev/blob.
//
// # Usage
//
//	s, err := store.Open(ctx, "/home/me/Documents/picre_varied_images")
//	defer s.Close()
//
//	objs, err := s.List(ctx)
//	err = s.Create(ctx, "image_1.webp", data)
//
// Supported URL schemes: file://, mem://, s3:// and gs://.
package store

// Package source loads page templates from disk or object storage.
//
//	loader := source.NewMux(source.FileLoader{}, source.NewS3Loader(client))
//	markup, err := loader.Load(ctx, "s3://pages/index.html")
//
// Plain paths and file:// URIs are read from disk; s3://bucket/key URIs
// are fetched with the AWS SDK.
package source

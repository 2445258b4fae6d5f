package transcoder

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=transcoder.go -destination=mocks/mock.go
type Client interface {
	// Transcode re-encodes a video to the delivery policy and returns the path of
	// the produced file. The caller owns the file and must hand it back with Release.
	Transcode(ctx context.Context, data []byte, originalName string) (string, error)
	// InUse reports whether path is an input being encoded or an output not yet released.
	InUse(path string) bool
	// Release removes a file returned by Transcode.
	Release(path string) error
}

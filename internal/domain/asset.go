package domain

// ResourceKind is the remote store's classification of an uploaded asset.
type ResourceKind string

const (
	ResourceImage ResourceKind = "image"
	ResourceVideo ResourceKind = "video"
)

// Asset is a remotely stored file. ID is the store's deletion handle and is
// distinct from the public URL.
type Asset struct {
	URL  string
	ID   string
	Kind ResourceKind
}

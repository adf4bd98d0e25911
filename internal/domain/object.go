package domain

// ObjectContent is a successfully fetched object. It is shared through the
// fetch cache and must not be mutated.
type ObjectContent struct {
	Body           []byte `json:"-"`
	ContentType    string `json:"content_type,omitempty"`
	HasContentType bool   `json:"-"`
	Bucket         string `json:"bucket"`
	Key            string `json:"key"`
}

// FetchKey identifies a cached object. Path must already be normalized.
type FetchKey struct {
	Bucket string
	Path   string
}

func (k FetchKey) String() string {
	return k.Bucket + "|" + k.Path
}

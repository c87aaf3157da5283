package store

// Config locates the slot directory.
type Config interface {
	BasePath() string
}

// Dir is a Config rooted at a fixed directory.
type Dir string

// BasePath implements Config.
func (d Dir) BasePath() string {
	return string(d)
}

package artifact

// File owns decoded character storage as two parallel byte buffers (mutable and immutable)
// and an index of Lines viewing into them. A File is built once by a Builder and is then
// immutable in shape: Lines may shrink their own mutable extents, but no Line is ever added,
// removed, or reordered after construction.
type File struct {
	alias   string
	mutData []byte
	immData []byte
	lines   []*Line
}

// Alias returns the configured name this artifact is known by (a config alias, not a URI).
func (f *File) Alias() string { return f.alias }

// Size returns the number of lines in the file.
func (f *File) Size() int { return len(f.lines) }

// At returns the line at the given 0-based index.
func (f *File) At(i int) *Line { return f.lines[i] }

// Lines returns the file's lines in order. The returned slice shares storage with the File and
// must not be appended to or reordered by callers.
func (f *File) Lines() []*Line { return f.lines }

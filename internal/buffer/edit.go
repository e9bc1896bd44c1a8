package buffer

// EditType represents the kind of edit.
type EditType int

const (
	Insert EditType = iota
	Delete
	Replace
)

// String returns the string representation of the edit type.
func (t EditType) String() string {
	switch t {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParseEditType converts a wire name into an EditType.
func ParseEditType(s string) (EditType, bool) {
	switch s {
	case "insert":
		return Insert, true
	case "delete":
		return Delete, true
	case "replace":
		return Replace, true
	default:
		return 0, false
	}
}

// Edit is a single change to the buffer, expressed in character offsets.
type Edit struct {
	Type     EditType
	Position int    // Character offset where the edit starts
	Length   int    // Characters removed (delete and replace)
	Text     string // Text inserted (insert and replace)
	Key      string // Key that produced the edit, used by checkpoint policies
}

// NewInsert creates an insert edit.
func NewInsert(text string, position int, key string) Edit {
	return Edit{
		Type:     Insert,
		Position: position,
		Text:     text,
		Key:      key,
	}
}

// NewDelete creates a delete edit removing length characters.
func NewDelete(position, length int, key string) Edit {
	return Edit{
		Type:     Delete,
		Position: position,
		Length:   length,
		Key:      key,
	}
}

// NewReplace creates an edit replacing length characters with text.
func NewReplace(position, length int, text, key string) Edit {
	return Edit{
		Type:     Replace,
		Position: position,
		Length:   length,
		Text:     text,
		Key:      key,
	}
}

// IsNoop returns true if applying the edit cannot change the buffer.
func (e Edit) IsNoop() bool {
	switch e.Type {
	case Insert:
		return e.Text == ""
	case Delete:
		return e.Length == 0
	default:
		return e.Length == 0 && e.Text == ""
	}
}

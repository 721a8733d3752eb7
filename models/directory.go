package models

// DirectoryState maps a category id to its specialists, newest first.
type DirectoryState map[string][]Specialist

// Clone deep-copies the state.
func (d DirectoryState) Clone() DirectoryState {
	out := make(DirectoryState, len(d))
	for cat, list := range d {
		cp := make([]Specialist, len(list))
		for i, s := range list {
			cp[i] = s.Clone()
		}
		out[cat] = cp
	}
	return out
}

// Locate returns the category and index of the specialist with the given id.
func (d DirectoryState) Locate(id string) (string, int, bool) {
	for cat, list := range d {
		for i := range list {
			if list[i].ID == id {
				return cat, i, true
			}
		}
	}
	return "", -1, false
}

package models

// AppData is the full flat snapshot of everything the app stores
type AppData struct {
	Children  []Child    `json:"children"`
	WordLists []WordList `json:"wordLists"`
	Settings  Settings   `json:"settings"`
}

// NewAppData returns an empty snapshot with default settings
func NewAppData() *AppData {
	return &AppData{
		Children:  []Child{},
		WordLists: []WordList{},
		Settings:  DefaultSettings(),
	}
}

// ChildLists returns the lists owned by childID, in snapshot order
func (d *AppData) ChildLists(childID string) []WordList {
	var lists []WordList
	for _, l := range d.WordLists {
		if l.ChildID == childID {
			lists = append(lists, l)
		}
	}
	return lists
}

// FindChild returns the child with the given ID, or nil
func (d *AppData) FindChild(childID string) *Child {
	for i := range d.Children {
		if d.Children[i].ID == childID {
			return &d.Children[i]
		}
	}
	return nil
}

// Progress counts mastered and total words across all of a child's lists,
// selected or not.
func (d *AppData) Progress(childID string, required int) ChildProgress {
	var p ChildProgress
	for _, l := range d.WordLists {
		if l.ChildID != childID {
			continue
		}
		for _, w := range l.Words {
			p.TotalWords++
			if w.IsMastered(required) {
				p.MasteredWords++
			}
		}
	}
	return p
}

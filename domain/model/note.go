package model

import "strings"

// Note is a memo to be written to the note service.
type Note struct {
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
}

// Render returns the text sent to the note service; tags are appended as #tag tokens.
func (n Note) Render() string {
	content := strings.TrimSpace(n.Content)
	var tags []string
	for _, t := range n.Tags {
		t = strings.TrimPrefix(strings.TrimSpace(t), "#")
		if t == "" {
			continue
		}
		tags = append(tags, "#"+t)
	}
	if len(tags) == 0 {
		return content
	}
	return content + "\n" + strings.Join(tags, " ")
}

// NoteReceipt is what the note service reports after accepting a note.
type NoteReceipt struct {
	Message string `json:"message"`
	Slug    string `json:"slug,omitempty"`
}

package domain

// SendMessageCommand is the intent of a participant to write into a room,
// coming either from REST or from a live connection.
type SendMessageCommand struct {
	RoomID   RoomID
	SenderID UserID    `validate:"gt=0"`
	Content  string    `validate:"max=65536"`
	File     *FileMeta `validate:"omitempty"`
}

// HasPayload reports whether the command carries something to store.
func (c SendMessageCommand) HasPayload() bool {
	return c.Content != "" || (c.File != nil && c.File.URL != "")
}

// LeaveNotice is the text of the system message appended on a one-sided exit.
const LeaveNotice = "The other participant has left the chat."

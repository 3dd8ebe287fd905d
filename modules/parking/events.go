package parking

// ChangeOp classifies a committed transaction mutation.
type ChangeOp string

const (
	OpInsert ChangeOp = "insert"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// ChangeEvent describes one committed mutation of the transactions table.
// New carries the row after the mutation, Old the row before it; inserts
// have no Old and deletes no New. Events are published after commit, in
// commit order.
type ChangeEvent struct {
	Op  ChangeOp     `json:"op"`
	New *Transaction `json:"new,omitempty"`
	Old *Transaction `json:"old,omitempty"`
}

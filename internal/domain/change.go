package domain

// Change types delivered by the backend feed. Resync is synthesized
// locally after a feed reconnect so consumers refetch anything missed
// while the connection was down.
const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
	ChangeResync = "resync"
)

// ChangeEvent signals that a row in a synchronized table changed.
// Events carry no row data; consumers refetch the whole table.
type ChangeEvent struct {
	Table string
	Type  string
	ID    string
}

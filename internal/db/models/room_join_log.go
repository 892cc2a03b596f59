package models

import "time"

// RoomJoinLog is the append-only audit record written after every successful
// token issuance. Rows are never updated or deleted individually; deleting a
// user cascades to their rows. Frequency holds the canonical two-decimal form
// (e.g. "101.10") matching the NUMERIC(5,2) column.
type RoomJoinLog struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Frequency string    `db:"frequency"`
	JoinedAt  time.Time `db:"joined_at"`
}

// RoomJoinLogWithUser is a join-log row joined with the owning user's
// username, as returned by the admin listing.
type RoomJoinLogWithUser struct {
	RoomJoinLog
	Username string `db:"username"`
}

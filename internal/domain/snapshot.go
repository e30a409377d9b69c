package domain

// SnapshotID is an opaque provider-issued token capturing chain state
// at a point in time. Anvil and hardhat return a hex quantity from
// evm_snapshot; the token is valid for a single revert within the
// provider session that created it.
type SnapshotID string

// Valid reports whether the token carries a value. The zero SnapshotID
// means no snapshot was taken.
func (s SnapshotID) Valid() bool {
	return s != ""
}

func (s SnapshotID) String() string {
	return string(s)
}

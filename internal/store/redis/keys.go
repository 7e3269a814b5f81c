package redis

const (
	// KeyPrefix namespaces every key the service writes.
	KeyPrefix = "aquatrack:"

	metaSuffix = ":updated_at"
)

// SnapshotKey returns the Redis key holding the JSON record list.
func SnapshotKey(name string) string {
	return KeyPrefix + name
}

// UpdatedAtKey returns the key holding the time of the last save.
func UpdatedAtKey(name string) string {
	return SnapshotKey(name) + metaSuffix
}

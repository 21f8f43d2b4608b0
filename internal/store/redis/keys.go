package redis

import (
	"fmt"
	"strings"
)

const (
	// KeyPrefixEntry is the prefix for entry hashes
	KeyPrefixEntry = "letterplace:entry:"
	// KeyAllEntries is the key for the set of all entry IDs
	KeyAllEntries = "letterplace:entries:all"
	// ChannelChanges is the pub/sub channel signalled on every write
	ChannelChanges = "letterplace:entries:changed"
)

// EntryKey returns the Redis key for an entry by ID
func EntryKey(id string) string {
	return KeyPrefixEntry + id
}

// AllEntriesKey returns the key for the set of all entry IDs
func AllEntriesKey() string {
	return KeyAllEntries
}

// ExtractEntryID extracts the entry ID from a Redis key, as carried by
// change notifications.
func ExtractEntryID(key string) (string, error) {
	if !strings.HasPrefix(key, KeyPrefixEntry) || len(key) == len(KeyPrefixEntry) {
		return "", fmt.Errorf("invalid entry key: %s", key)
	}
	return key[len(KeyPrefixEntry):], nil
}

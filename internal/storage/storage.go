// Package storage provides the synchronous string-keyed medium the session
// store persists to.
package storage

// KeyValue is a durable, synchronous key/value medium. GetItem reports
// whether the key is present; an absent key is not an error.
type KeyValue interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Keys() ([]string, error)
}
